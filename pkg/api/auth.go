package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// Authenticator decides whether a request may use the API.
type Authenticator interface {
	Authenticate(r *http.Request) bool
}

// OpenAccess lets every request through.
type OpenAccess struct{}

func (OpenAccess) Authenticate(*http.Request) bool { return true }

// TokenAuthenticator accepts requests carrying one of a set of static
// tokens in the Authorization header, either as "Bearer <token>" or bare.
// Websocket handshakes may pass the token as the token query parameter
// instead. An empty token set accepts everything.
type TokenAuthenticator struct {
	tokens atomic.Pointer[[]string]
}

func NewTokenAuthenticator(tokens []string) *TokenAuthenticator {
	a := &TokenAuthenticator{}
	a.SetTokens(tokens)
	return a
}

// SetTokens replaces the accepted tokens. Safe for concurrent use.
func (a *TokenAuthenticator) SetTokens(tokens []string) {
	var clean []string
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	a.tokens.Store(&clean)
}

// Open reports whether no tokens are configured.
func (a *TokenAuthenticator) Open() bool {
	return len(*a.tokens.Load()) == 0
}

func (a *TokenAuthenticator) Authenticate(r *http.Request) bool {
	tokens := *a.tokens.Load()
	if len(tokens) == 0 {
		return true
	}

	given := bearerToken(r.Header.Get("Authorization"))
	if given == "" && websocket.IsWebSocketUpgrade(r) {
		// Browsers can't set headers on websocket handshakes.
		given = r.URL.Query().Get("token")
	}
	if given == "" {
		return false
	}

	ok := false
	for _, t := range tokens {
		if subtle.ConstantTimeCompare([]byte(given), []byte(t)) == 1 {
			ok = true
		}
	}
	return ok
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// requireAuth rejects unauthenticated requests with 401.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.Authenticate(r) {
			s.logger.Warnf("rejected unauthenticated request %s %s from %s", r.Method, r.URL.Path, clientIP(r))
			s.writeError(w, http.StatusUnauthorized, "Unauthorized", "Invalid or missing API token")
			return
		}
		next(w, r)
	}
}
