package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/releases", s.protect(s.HandleListReleases))
	mux.HandleFunc("GET /api/releases/live", s.protect(s.HandleLiveReleases))
	mux.HandleFunc("GET /api/releases/{id}", s.protect(s.HandleShowRelease))
	mux.HandleFunc("GET /api/artists", s.protect(s.HandleListArtists))
	mux.HandleFunc("GET /api/artists/{id}", s.protect(s.HandleShowArtist))
	mux.HandleFunc("GET /api/artists/{id}/releases", s.protect(s.HandleArtistReleases))
	mux.HandleFunc("GET /api/albums", s.protect(s.HandleListAlbums))
	mux.HandleFunc("GET /api/albums/{id}", s.protect(s.HandleShowAlbum))
	mux.HandleFunc("GET /health", s.HandleHealth)
}

func (s *Server) protect(h http.HandlerFunc) http.HandlerFunc {
	return s.rateLimit(s.requireAuth(h))
}

// Handler returns the API routes behind the full middleware stack.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s.Wrap(mux)
}

// Wrap applies the middleware stack shared by the API and the web pages.
func (s *Server) Wrap(h http.Handler) http.Handler {
	return RequestIDMiddleware(AccessLog(s.logger)(Compress(CorsMiddleware(h))))
}
