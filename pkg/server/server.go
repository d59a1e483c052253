package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/flumotion/depgraph/internal/depgraph"
	"github.com/flumotion/depgraph/pkg/config"
	"github.com/flumotion/depgraph/pkg/health"
	"github.com/flumotion/depgraph/pkg/logging"
	"github.com/flumotion/depgraph/pkg/middleware"
	"github.com/flumotion/depgraph/pkg/telemetry"
)

// Config holds HTTP server configuration.
type Config struct {
	Address            string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
	RateLimit          middleware.RateLimitConfig
}

// DefaultConfig returns a Config suitable for a single-cluster-manager
// deployment.
func DefaultConfig() Config {
	return Config{
		Address:            ":8080",
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20,
		RateLimit:          middleware.DefaultRateLimitConfig(),
	}
}

// Server is the dependency graph's HTTP control plane.
type Server struct {
	config Config

	httpServer    *http.Server
	graph         *depgraph.Locked
	registry      *registry
	healthChecker *health.Checker
	metrics       *telemetry.Metrics
	logger        *logging.Logger
}

// New builds a Server wrapping a fresh depgraph.Locked.
func New(cfg Config, graphCfg *config.Config) (*Server, error) {
	logger := logging.New(logging.DefaultConfig())

	metrics, err := telemetry.New(context.Background(), telemetry.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("create telemetry: %w", err)
	}

	graph := depgraph.NewLocked(
		depgraph.WithConfig(graphCfg),
		depgraph.WithLogger(logger),
		depgraph.WithMetrics(metrics),
	)

	healthChecker := health.NewChecker("depgraph", "0.1.0")
	healthChecker.RegisterCheck("graph", graph.Healthy, 5*time.Second, true)

	s := &Server{
		config:        cfg,
		graph:         graph,
		registry:      newRegistry(),
		healthChecker: healthChecker,
		metrics:       metrics,
		logger:        logger,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	chain := middleware.NewChain().
		Use(middleware.Recovery(logger)).
		Use(middleware.Logging(logger)).
		Use(middleware.SizeLimit(middleware.SizeLimitConfig{MaxBodySize: cfg.MaxRequestBodySize})).
		Use(middleware.RateLimit(cfg.RateLimit))

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      chain.Then(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s, nil
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.healthChecker.HTTPHandler())
	mux.HandleFunc("/health/live", s.healthChecker.LivenessHandler())
	mux.HandleFunc("/health/ready", s.healthChecker.ReadinessHandler())
	mux.Handle("/metrics", s.metrics.Handler())

	mux.HandleFunc("POST /api/v1/workers", s.handleAddWorker)
	mux.HandleFunc("DELETE /api/v1/workers/{name}", s.handleRemoveWorker)

	mux.HandleFunc("POST /api/v1/components", s.handleAddComponent)
	mux.HandleFunc("DELETE /api/v1/components/{name}", s.handleRemoveComponent)
	mux.HandleFunc("POST /api/v1/components/{name}/worker", s.handleSetComponentWorker)
	mux.HandleFunc("POST /api/v1/components/{name}/clock-master", s.handleAddClockMaster)

	mux.HandleFunc("POST /api/v1/flows/map-eaters-to-feeders", s.handleMapEatersToFeeders)

	mux.HandleFunc("POST /api/v1/liveness/{kind}/{name}", s.handleSetLiveness)

	mux.HandleFunc("GET /api/v1/schedule", s.handleSchedule)
}

// Handler returns the fully wrapped HTTP handler (routes + middleware
// chain), primarily so tests can drive the server without binding a port.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the HTTP server until it is shut down. Returns nil on a clean
// shutdown (http.ErrServerClosed).
func (s *Server) Start() error {
	s.logger.WithField("address", s.config.Address).Info("starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and flushes telemetry.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := s.metrics.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown telemetry: %w", err)
	}
	s.logger.Info("server shutdown complete")
	return nil
}
