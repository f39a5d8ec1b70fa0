// Package server exposes the day dashboard over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/claude/healthboard/internal/coordinator"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	coord  *coordinator.Coordinator
	loc    *time.Location
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(coord *coordinator.Coordinator, loc *time.Location, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		coord:  coord,
		loc:    loc,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Control endpoints (API key required)
	s.router.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/backfill", s.handleStartBackfill)
	})

	// Dashboard API endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/day/{date}", s.handleGetDay)
	s.router.Get("/api/v1/days", s.handleGetDays)
	s.router.Get("/api/v1/sleep/trends", s.handleSleepTrends)
	s.router.Get("/api/v1/workouts", s.handleQueryWorkouts)
	s.router.Get("/api/v1/status", s.handleStatus)
}

// SetMCP mounts the model-context-protocol transport under /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Mount("/mcp", h)
}
