// Package web serves the import API and its HTML pages.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/tsimport/internal/config"
	"github.com/JonMunkholm/tsimport/internal/core"
	"github.com/JonMunkholm/tsimport/internal/logging"
	"github.com/JonMunkholm/tsimport/internal/store"
	"github.com/JonMunkholm/tsimport/internal/timestamp"
	"github.com/JonMunkholm/tsimport/internal/web/middleware"
)

// Service is the behaviour the handlers need. *core.Service implements it.
type Service interface {
	Import(ctx context.Context, req core.ImportRequest) (core.ImportResult, error)
	Detect(samples []string) []timestamp.ColumnTypeInfo
	ParseValue(value, format string) (float64, bool)
	ListImports(ctx context.Context, limit int) ([]store.Import, error)
	GetImport(ctx context.Context, id string) (core.ImportResult, error)
	Readings(ctx context.Context, id string, position, offset, limit int) ([]store.Reading, error)
	DeleteImport(ctx context.Context, id string) error
	Health(ctx context.Context) (core.LimiterStatus, error)
}

// Server is the HTTP front end of the import service.
type Server struct {
	service Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer builds the router. ctx bounds background work such as rate limiter sweeps.
func NewServer(ctx context.Context, service Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware(ctx)
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware(ctx context.Context) {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(middleware.SecurityHeaders)

	if s.cfg.Rate.Enabled {
		limiter := middleware.NewRateLimiter(ctx, s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.Middleware)
	}
}

func (s *Server) setupRoutes() {
	requestTimeout := s.cfg.Server.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}

	s.router.Get("/healthz", s.handleHealth)

	// Everything except imports runs under the request timeout and compression.
	s.router.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))
		r.Use(chimw.Compress(5))

		r.Get("/", s.handleIndex)
		r.Get("/imports/{id}", s.handleImportPage)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(s.cfg.Security.RequireAPIKey, s.cfg.Security.APIKeys))

		// Imports are bounded by IMPORT_TIMEOUT inside the service.
		r.Post("/imports", s.handleCreateImport)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(requestTimeout))
			r.Use(chimw.Compress(5))

			r.Post("/detect", s.handleDetect)
			r.Post("/parse", s.handleParse)
			r.Get("/imports", s.handleListImports)
			r.Get("/imports/{id}", s.handleGetImport)
			r.Delete("/imports/{id}", s.handleDeleteImport)
			r.Get("/imports/{id}/columns/{position}/readings", s.handleReadings)
		})
	})
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	sc := s.cfg.Server
	s.server = &http.Server{
		Addr:         sc.Addr(),
		Handler:      s.router,
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
		IdleTimeout:  sc.IdleTimeout,
	}

	logging.FromContext(context.Background()).Info("http server listening", "addr", sc.Addr())
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
