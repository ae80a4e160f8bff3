package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rubiojr/catalog/pkg/catalog"
)

const (
	liveReadLimit    = 4096
	liveWriteTimeout = 10 * time.Second
	livePongWait     = 60 * time.Second
	livePingEvery    = 50 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// values turns a live request into the query of an equivalent list call.
func (lr LiveRequest) values() url.Values {
	v := url.Values{}
	if lr.Search != "" {
		v.Set("search", lr.Search)
	}
	if lr.Page > 0 {
		v.Set("page", strconv.Itoa(lr.Page))
	}
	if lr.Limit > 0 {
		v.Set("limit", strconv.Itoa(lr.Limit))
	}
	if lr.Past != "" {
		v.Set("past", lr.Past)
	}
	return v
}

// HandleLiveReleases serves GET /api/releases/live, a websocket that answers
// every LiveRequest with the release document a GET /api/releases with the
// same parameters would return. Messages are handled one at a time, in
// order.
func (s *Server) HandleLiveReleases(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("live upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	base := strings.TrimSuffix(s.linkBase(r), "/live")
	s.logger.Debugf("live client connected from %s", clientIP(r))

	conn.SetReadLimit(liveReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(livePingEvery)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteTimeout)); err != nil {
					return
				}
			}
		}
	}()

	if err := s.liveSend(conn, LiveMessage{Type: "init"}); err != nil {
		return
	}

	for {
		var req LiveRequest
		if err := conn.ReadJSON(&req); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				if err := s.liveSend(conn, LiveMessage{Type: "error", Message: "invalid request"}); err != nil {
					return
				}
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debugf("live read: %v", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(livePongWait))

		params := catalog.ParseListParams(req.values(), s.catalog.Limits())
		doc, err := s.catalog.ReleasesDocument(r.Context(), base, params)
		msg := LiveMessage{Type: "results", Document: doc}
		if err != nil {
			s.logger.Errorf("live search: %v", err)
			msg = LiveMessage{Type: "error", Message: "search failed"}
		}
		if err := s.liveSend(conn, msg); err != nil {
			return
		}
	}
}

func (s *Server) liveSend(conn *websocket.Conn, msg LiveMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Debugf("live write: %v", err)
		return err
	}
	return nil
}
