// Package api serves the catalog as a JSON:API over HTTP.
//
// Routes are registered on a standard ServeMux. Handler wraps them with the
// middleware stack: request ids, access logging, compression, CORS, per
// client rate limiting and token authentication.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rubiojr/catalog/pkg/catalog"
	"github.com/rubiojr/catalog/pkg/jsonapi"
	"github.com/rubiojr/catalog/pkg/log"
)

type Server struct {
	catalog *catalog.Service
	auth    Authenticator
	limiter *RateLimiter
	baseURL string
	logger  *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAuthenticator sets the API authenticator. Without one the API is
// open.
func WithAuthenticator(a Authenticator) Option {
	return func(s *Server) { s.auth = a }
}

// WithRateLimiter enables per client rate limiting.
func WithRateLimiter(l *RateLimiter) Option {
	return func(s *Server) { s.limiter = l }
}

// WithBaseURL fixes the scheme and host used in pagination links. Without
// it links are built from the request.
func WithBaseURL(u string) Option {
	return func(s *Server) { s.baseURL = strings.TrimSuffix(u, "/") }
}

func NewServer(svc *catalog.Service, opts ...Option) *Server {
	s := &Server{
		catalog: svc,
		logger:  log.ForService("api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.auth == nil {
		s.auth = OpenAccess{}
	}
	return s
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, contentType string, data any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeDocument(w http.ResponseWriter, status int, doc any) {
	s.writeJSON(w, status, jsonapi.ContentType, doc)
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	s.writeJSON(w, status, "application/json", ErrorResponse{Error: error, Message: message})
}

// writeErrors renders a JSON:API error document.
func (s *Server) writeErrors(w http.ResponseWriter, status int, details ...string) {
	s.writeDocument(w, status, jsonapi.NewErrorDocument(status, details...))
}

// linkBase is the absolute URL of the current listing without query.
func (s *Server) linkBase(r *http.Request) string {
	if s.baseURL != "" {
		return s.baseURL + r.URL.Path
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.Path
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
