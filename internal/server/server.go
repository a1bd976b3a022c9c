// Package server exposes the matching pipeline over an HTTP API. Each
// matching request runs inside a session created by the upload endpoint and
// torn down by the cleanup endpoint.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sells-group/matching-cli/internal/match"
	"github.com/sells-group/matching-cli/internal/session"
)

// Server holds the handler dependencies for the matching API.
type Server struct {
	engine         *match.Engine
	sessions       session.Store
	finder         match.PrecedentFinder
	uploadDir      string
	maxUploadBytes int64
	corsOrigins    []string
}

// Option configures a Server.
type Option func(*Server)

// WithUploadDir sets the directory uploaded files are saved into.
func WithUploadDir(dir string) Option {
	return func(s *Server) { s.uploadDir = dir }
}

// WithMaxUploadMB caps the accepted multipart body size.
func WithMaxUploadMB(mb int64) Option {
	return func(s *Server) { s.maxUploadBytes = mb << 20 }
}

// WithCORSOrigins sets the allowed CORS origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// New constructs a Server over the given engine, session store and precedent
// finder.
func New(engine *match.Engine, sessions session.Store, finder match.PrecedentFinder, opts ...Option) *Server {
	s := &Server{
		engine:         engine,
		sessions:       sessions,
		finder:         finder,
		uploadDir:      "uploads",
		maxUploadBytes: 16 << 20,
		corsOrigins:    []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(api chi.Router) {
		api.Post("/upload_and_match", s.handleUploadAndMatch)
		api.Post("/analyze_matching", s.handleAnalyzeMatching)
		api.Post("/matching_results", s.handleMatchingResults)
		api.Post("/cleanup_session", s.handleCleanupSession)
	})

	return r
}
