// Package api serves the analysis pipeline over HTTP.
//
// Routes:
//
//	POST /v1/analyze     registry body → validation, diagram, report and run id
//	POST /v1/validate    registry body → validation result
//	GET  /v1/runs        archived runs, newest first (when an archive is set)
//	GET  /v1/runs/{id}   one archived run
//	GET  /healthz        liveness
//	GET  /metrics        Prometheus metrics
//
// Registry bodies are JSON by default; YAML and TOML are accepted when the
// Content-Type says so.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/archgraph/pkg/pipeline"
	"github.com/matzehuels/archgraph/pkg/store"
)

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = ":8080"

	// DefaultMaxBodyBytes bounds registry request bodies.
	DefaultMaxBodyBytes = 4 << 20

	shutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr         string
	MaxBodyBytes int64

	// Defaults are applied to every request before query overrides.
	Defaults pipeline.Options
}

// SetDefaults fills zero-valued fields.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
}

// Server is the HTTP front end of a pipeline Runner.
type Server struct {
	config  Config
	runner  *pipeline.Runner
	archive store.Store // optional
	metrics *Metrics
	logger  *log.Logger
	router  chi.Router
	now     func() time.Time
}

// New creates a Server. archive may be nil, in which case runs are not
// archived and the /v1/runs routes answer 404.
func New(cfg Config, runner *pipeline.Runner, archive store.Store, metrics *Metrics, logger *log.Logger) *Server {
	cfg.SetDefaults()
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{
		config:  cfg,
		runner:  runner,
		archive: archive,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/validate", s.handleValidate)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
