package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/okplanar/pkg/pipeline"
	"github.com/matzehuels/okplanar/pkg/store"
)

// =============================================================================
// Configuration
// =============================================================================

// Defaults applied by [New] to zero Config fields.
const (
	DefaultAddr           = ":8080"
	DefaultRequestTimeout = 2 * time.Minute
	DefaultMaxVertices    = 40
	DefaultMaxBatch       = 1000

	shutdownTimeout = 10 * time.Second
	maxBodyBytes    = 4 << 20
)

// Config configures the HTTP server.
type Config struct {
	Addr           string
	RequestTimeout time.Duration
	// MaxVertices rejects larger graphs before any solver runs.
	MaxVertices int
	// MaxBatch bounds the number of graphs in one batch request.
	MaxBatch int
	// Workers bounds concurrent solves inside a batch request.
	Workers int
	// Defaults fills solve options a request leaves empty.
	Defaults pipeline.Options
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MaxVertices <= 0 {
		c.MaxVertices = DefaultMaxVertices
	}
	if c.MaxBatch <= 0 {
		c.MaxBatch = DefaultMaxBatch
	}
}

// =============================================================================
// Server
// =============================================================================

// Server serves the solve API. Store may be nil, in which case results are
// not persisted and the lookup routes answer 404.
type Server struct {
	cfg     Config
	runner  *pipeline.Runner
	store   store.Store
	metrics *Metrics
	logger  *log.Logger
	router  chi.Router
}

// New builds the router. A nil metrics disables /metrics and request
// accounting; a nil logger means log.Default().
func New(cfg Config, runner *pipeline.Runner, st store.Store, metrics *Metrics, logger *log.Logger) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:     cfg,
		runner:  runner,
		store:   st,
		metrics: metrics,
		logger:  logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		r.Post("/solve", s.handleSolve)
		r.Post("/batch", s.handleBatch)
		r.Get("/results/{id}", s.handleResult)
		r.Get("/runs/{runID}", s.handleRun)
	})
	return r
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on cfg.Addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
