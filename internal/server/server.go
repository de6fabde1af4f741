// Package server exposes the visuals over HTTP.
//
// The server is a headless host: each request creates a visual instance,
// runs one update against the posted data view and returns the rendered
// artifact, the report or the effective settings of an object.
//
// # Routes
//
//	GET  /healthz
//	GET  /v1/visuals
//	POST /v1/visuals/{type}/render?format=svg|png|pdf|json
//	POST /v1/visuals/{type}/objects/{object}
//	GET  /v1/stats
//
// /v1/stats reports the [observability.Counters] in Config.Stats; the host
// registers them with [observability.Register].
package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/chartpack/pkg/observability"
	"github.com/matzehuels/chartpack/pkg/pipeline"
	"github.com/matzehuels/chartpack/pkg/visual"
)

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = ":8080"

	// DefaultMaxBodyBytes bounds request bodies.
	DefaultMaxBodyBytes = 8 << 20

	// DefaultRequestTimeout bounds one render, including location lookups.
	DefaultRequestTimeout = 60 * time.Second

	shutdownTimeout = 5 * time.Second
)

// Config holds configuration for the server.
type Config struct {
	Runner         *pipeline.Runner
	Addr           string
	Logger         *log.Logger
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	Stats          *observability.Counters
}

// Server is the HTTP host adapter.
type Server struct {
	runner         *pipeline.Runner
	addr           string
	logger         *log.Logger
	maxBodyBytes   int64
	requestTimeout time.Duration
	stats          *observability.Counters
}

// New creates a server. A nil Runner renders without caching.
func New(cfg Config) *Server {
	s := &Server{
		runner:         cfg.Runner,
		addr:           cfg.Addr,
		logger:         cfg.Logger,
		maxBodyBytes:   cfg.MaxBodyBytes,
		requestTimeout: cfg.RequestTimeout,
		stats:          cfg.Stats,
	}
	if s.stats == nil {
		s.stats = &observability.Counters{}
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.runner.Registry == nil {
		s.runner.Registry = visual.Default
	}
	if s.addr == "" {
		s.addr = DefaultAddr
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = DefaultMaxBodyBytes
	}
	if s.requestTimeout <= 0 {
		s.requestTimeout = DefaultRequestTimeout
	}
	return s
}

// Handler returns the router with every route and middleware mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		s.requestID,
		s.logRequests,
		middleware.Recoverer,
		middleware.Timeout(s.requestTimeout),
	)

	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/stats", s.handleStats)
	r.Route("/v1/visuals", func(r chi.Router) {
		r.Get("/", s.handleVisuals)
		r.Post("/{type}/render", s.handleRender)
		r.Post("/{type}/objects/{object}", s.handleObjects)
	})
	return r
}

// Serve starts the server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting server", "addr", s.addr)

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
