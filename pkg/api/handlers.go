package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rubiojr/catalog/pkg/catalog"
	"github.com/rubiojr/catalog/pkg/storage"
	"github.com/rubiojr/catalog/pkg/version"
)

func (s *Server) params(r *http.Request) catalog.ListParams {
	return catalog.ParseListParams(r.URL.Query(), s.catalog.Limits())
}

// internalErrorDetail is all a client learns about a data-source failure.
// The full error only goes to the log, keyed by request id.
const internalErrorDetail = "internal error"

// failed logs a data-source error and answers 500.
func (s *Server) failed(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Errorf("%s %s: %v (id=%s)", r.Method, r.URL.Path, err, RequestID(r.Context()))
	s.writeErrors(w, http.StatusInternalServerError, internalErrorDetail)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, doc any, err error) {
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeErrors(w, http.StatusNotFound, "resource not found")
			return
		}
		s.failed(w, r, err)
		return
	}
	s.writeDocument(w, http.StatusOK, doc)
}

// pathID parses the {id} path value. It answers 404 and returns false for
// anything that is not a positive integer.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeErrors(w, http.StatusNotFound, "resource not found")
		return 0, false
	}
	return id, true
}

// HandleListReleases serves GET /api/releases.
func (s *Server) HandleListReleases(w http.ResponseWriter, r *http.Request) {
	doc, err := s.catalog.ReleasesDocument(r.Context(), s.linkBase(r), s.params(r))
	s.respond(w, r, doc, err)
}

func (s *Server) HandleListArtists(w http.ResponseWriter, r *http.Request) {
	doc, err := s.catalog.ArtistsDocument(r.Context(), s.linkBase(r), s.params(r))
	s.respond(w, r, doc, err)
}

func (s *Server) HandleListAlbums(w http.ResponseWriter, r *http.Request) {
	doc, err := s.catalog.AlbumsDocument(r.Context(), s.linkBase(r), s.params(r))
	s.respond(w, r, doc, err)
}

// HandleArtistReleases lists the releases an artist participates in, with
// the same filters as the release listing.
func (s *Server) HandleArtistReleases(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	exists, err := s.catalog.ArtistExists(r.Context(), id)
	if err != nil {
		s.failed(w, r, err)
		return
	}
	if !exists {
		s.writeErrors(w, http.StatusNotFound, "artist not found")
		return
	}

	doc, err := s.catalog.ReleasesDocument(r.Context(), s.linkBase(r), s.params(r), storage.ReleasesByArtist(id))
	s.respond(w, r, doc, err)
}

func (s *Server) HandleShowRelease(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	doc, err := s.catalog.ReleaseDocument(r.Context(), id)
	s.respond(w, r, doc, err)
}

func (s *Server) HandleShowArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	doc, err := s.catalog.ArtistDocument(r.Context(), id)
	s.respond(w, r, doc, err)
}

func (s *Server) HandleShowAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	doc, err := s.catalog.AlbumDocument(r.Context(), id)
	s.respond(w, r, doc, err)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	}

	s.writeJSON(w, http.StatusOK, "application/json", health)
}
