package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-staker/internal/health"
	"github.com/yourusername/value-staker/internal/metrics"
)

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Port           int
	AllowedOrigins []string
	RequestTimeout time.Duration
	MetricsEnabled bool
	MetricsPath    string
}

// Server serves the allocation API, health probes and metrics
type Server struct {
	cfg     ServerConfig
	handler *Handler
	checker *health.Checker
	logger  *logrus.Logger
	server  *http.Server
}

// NewServer creates a new API server
func NewServer(cfg ServerConfig, planner Planner, checker *health.Checker, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}

	return &Server{
		cfg:     cfg,
		handler: NewHandler(planner, logger),
		checker: checker,
		logger:  logger,
	}
}

// Router builds the chi router with middleware and routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if s.checker != nil {
		r.Get("/health", s.checker.HandleHealth)
		r.Get("/live", s.checker.HandleLive)
		r.Get("/ready", s.checker.HandleReady)
	}
	if s.cfg.MetricsEnabled {
		r.Handle(s.cfg.MetricsPath, metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))

		r.Get("/matches", s.handler.GetMatches)
		r.Post("/allocate", s.handler.PostAllocate)
		r.Get("/plans/latest", s.handler.GetLatestPlans)
		r.Get("/plans/{id}", s.handler.GetPlan)
	})

	return r
}

// Start serves in the background until ctx is cancelled or Shutdown is called
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: s.cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithField("port", s.cfg.Port).Info("API server starting")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("API server error")
		}
	}()

	go func() {
		<-ctx.Done()
		_ = s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("API server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
