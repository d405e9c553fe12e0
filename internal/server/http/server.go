// Package httpserver provides the HTTP REST API server for the scholar
// search service.
package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/citescope/scholar-search-service/internal/database"
	"github.com/citescope/scholar-search-service/internal/observability"
	"github.com/citescope/scholar-search-service/internal/reconcile"
	"github.com/citescope/scholar-search-service/internal/repository"
	"github.com/citescope/scholar-search-service/internal/scholar"
)

// HealthReporter is the slice of the database layer the server needs for
// health and stats endpoints.
type HealthReporter interface {
	Health(ctx context.Context) database.HealthStatus
	Stats() *pgxpool.Stat
}

// Server is the HTTP REST API server.
type Server struct {
	router         chi.Router
	httpServer     *http.Server
	client         *scholar.Client
	processor      *reconcile.Processor
	articleRepo    repository.ArticleRepository
	researcherRepo repository.ResearcherRepository
	schemaRepo     repository.SchemaRepository
	db             HealthReporter
	metrics        *observability.Metrics
	validate       *validator.Validate
	logger         zerolog.Logger
}

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// NewServer creates a new HTTP server with all dependencies.
func NewServer(
	cfg Config,
	client *scholar.Client,
	processor *reconcile.Processor,
	articleRepo repository.ArticleRepository,
	researcherRepo repository.ResearcherRepository,
	schemaRepo repository.SchemaRepository,
	db HealthReporter,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		client:         client,
		processor:      processor,
		articleRepo:    articleRepo,
		researcherRepo: researcherRepo,
		schemaRepo:     schemaRepo,
		db:             db,
		metrics:        metrics,
		validate:       validator.New(),
		logger:         logger.With().Str("component", "http-server").Logger(),
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(correlationIDMiddleware)
	r.Use(s.requestLoggingMiddleware)
	r.Use(jsonContentTypeMiddleware)

	// Health endpoints
	r.Get("/healthz", s.healthHandler)
	r.Get("/readyz", s.readinessHandler)

	r.Route("/api/v1/scholar", func(r chi.Router) {
		r.Get("/search", s.simpleSearch)
		r.Post("/search", s.search)
		r.Get("/authors/search", s.searchAuthor)
		r.Get("/cited-by/{citesID}", s.searchCitedBy)
		r.Get("/versions/{clusterID}", s.searchVersions)

		r.Post("/search-and-save", s.searchAndSave)
		r.Post("/save-articles", s.saveArticles)
		r.Post("/researchers/batch", s.saveResearcherBatch)

		r.Post("/database/initialize", s.initializeDatabase)
		r.Get("/database/stats", s.databaseStats)
	})

	return r
}

// Router exposes the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := s.db.Health(r.Context())
	if health.Status == "healthy" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": health.Status})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status":   "unhealthy",
		"database": health.Status,
		"error":    health.Error,
	})
}

// readinessHandler returns readiness status.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	health := s.db.Health(r.Context())
	if health.Status != "healthy" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "not_ready",
			"database": health.Status,
			"error":    health.Error,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"database": "healthy",
	})
}
