// Package api provides the HTTP API server and handlers for the notes service.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/notesapp/notes-server/internal/http/response"
	"github.com/notesapp/notes-server/internal/metrics"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options carries the non-service dependencies of the server.
type Options struct {
	Title          string
	AllowedOrigins []string
	// DataPath is the directory whose disk usage /health reports. Empty skips the check.
	DataPath string
	DB       Pinger
	// Metrics enables request instrumentation and /metrics when non-nil.
	Metrics *metrics.Metrics
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services *Services
	opts     Options
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Title == "" {
		opts.Title = "Notes API"
	}

	s := &Server{
		services: services,
		opts:     opts,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware()
	s.api = humachi.New(s.router, newHumaConfig(opts.Title))
	RegisterErrorHandler()
	s.api.UseMiddleware(s.requireAuth)
	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

func newHumaConfig(title string) huma.Config {
	cfg := huma.DefaultConfig(title, Version)
	cfg.Info.Description = "Personal notes with tags, favorites and archive."
	// No $schema links: bodies are exactly the documented resources and error shape.
	cfg.CreateHooks = nil
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	return cfg
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(response.Recoverer(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	if s.opts.Metrics != nil {
		s.router.Use(s.opts.Metrics.Middleware)
	}

	s.router.NotFound(response.NotFound(s.logger))
	s.router.MethodNotAllowed(response.MethodNotAllowed(s.logger))
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerNoteRoutes()
	s.registerTagRoutes()
	s.registerProfileRoutes()
	s.registerSettingsRoutes()

	if s.opts.Metrics != nil {
		s.router.Handle("/metrics", s.opts.Metrics.Handler())
	}
}

// bearerAuth is the security requirement of every authenticated operation.
var bearerAuth = []map[string][]string{{"bearer": {}}}
