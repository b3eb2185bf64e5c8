// Package server provides the HTTP API for kotae.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kotae-dev/kotae/internal/config"
	"github.com/kotae-dev/kotae/internal/indexer"
	"github.com/kotae-dev/kotae/internal/registry"
	"github.com/kotae-dev/kotae/internal/search"
)

// Server is the HTTP server for the kotae API.
type Server struct {
	engine     *search.Engine
	registry   *registry.Registry
	builder    *indexer.Builder
	tenantDirs map[string]string
	config     *config.Config
	logger     *zap.Logger
	server     *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	reg *registry.Registry,
	builder *indexer.Builder,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:     engine,
		registry:   reg,
		builder:    builder,
		tenantDirs: cfg.TenantDirs(),
		config:     cfg,
		logger:     logger,
	}
}

// Router returns the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/tenants/{tenant}/search", s.handleSearch)
	r.Post("/api/v1/tenants/{tenant}/reindex", s.handleReindex)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
