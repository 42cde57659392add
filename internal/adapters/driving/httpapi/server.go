// Package httpapi exposes the relevance engine over HTTP for chat backends
// and site administration.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/relevance/internal/core/ports/driving"
	"github.com/custodia-labs/relevance/internal/logger"
)

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("httpapi: search service is required")

// Ports aggregates the driving ports the API exposes.
// Only Search is required; routes for missing ports answer 501.
type Ports struct {
	Search       driving.SearchService
	Orchestrator driving.Orchestrator
	Contexts     driving.ContextService
	Indexer      driving.Indexer

	// Metrics serves /metrics when set.
	Metrics http.Handler

	// MCP serves the Model Context Protocol on /mcp when set.
	MCP http.Handler
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}

// Config tunes the HTTP server.
type Config struct {
	// RequestTimeout bounds query endpoints. Index endpoints are not bounded.
	RequestTimeout time.Duration
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{RequestTimeout: 30 * time.Second}
}

// Server serves the HTTP API.
type Server struct {
	ports  *Ports
	config Config
	router chi.Router
}

// NewServer creates a server and builds its routes.
func NewServer(ports *Ports, config Config) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultConfig().RequestTimeout
	}

	s := &Server{ports: ports, config: config}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP shutdown: %v", err)
		}
	}()

	logger.Info("HTTP API listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.ports.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.ports.Metrics)
	}
	if s.ports.MCP != nil {
		r.Handle("/mcp", s.ports.MCP)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(s.config.RequestTimeout))

			r.Get("/search", s.handleSearch)
			r.Post("/context", s.handleBuildContext)
			r.Post("/context/find", s.handleFindContext)
			r.Get("/context/sections", s.handleListSections)
			r.Get("/context/sections/{section}", s.handleGetSection)
			r.Get("/index/stats", s.handleIndexStats)
		})

		r.Post("/index", s.handleIndexAll)
		r.Post("/index/{type}", s.handleIndexType)
	})

	return r
}

// requestLogger logs each request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug("%s %s %d %s [%s]", r.Method, r.URL.Path, ww.Status(), time.Since(start),
			chimiddleware.GetReqID(r.Context()))
	})
}
