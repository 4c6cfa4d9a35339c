// Package server assembles the HTTP router and runs it until the context ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"credex/internal/platform/config"
	"credex/pkg/platform/middleware/metadata"
	"credex/pkg/platform/middleware/ratelimit"
	"credex/pkg/platform/middleware/request"
	"credex/pkg/platform/middleware/requesttime"
)

// Routes is implemented by every handler mounted on the router.
type Routes interface {
	Register(r chi.Router)
}

// Task runs alongside the HTTP server and stops when ctx is cancelled.
type Task func(ctx context.Context) error

type Server struct {
	cfg    *config.Server
	logger *slog.Logger
	router *chi.Mux
	tasks  []Task
}

type Option func(*Server)

// WithTask adds a background task to the server's lifecycle.
func WithTask(t Task) Option {
	return func(s *Server) {
		s.tasks = append(s.tasks, t)
	}
}

// New builds the router. probes are mounted outside the API middleware so
// rate limiting and body limits never fail a health check; api gets the full chain.
func New(cfg *config.Server, logger *slog.Logger, reg *prometheus.Registry, probes Routes, api []Routes, opts ...Option) (*Server, error) {
	trusted, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return nil, fmt.Errorf("parse trusted proxies: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		router: chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	latency := request.NewMetrics(reg)
	s.router.Use(request.RequestID)
	s.router.Use(request.Recovery(logger))
	s.router.Use(requesttime.Middleware)
	s.router.Use(metadata.NewMiddleware(metadata.Config{TrustedProxies: trusted}).Handler)
	s.router.Use(request.Logger(logger))

	probes.Register(s.router)
	s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	s.router.Group(func(r chi.Router) {
		r.Use(ratelimit.Middleware(logger, cfg.RateLimitRPS, cfg.RateLimitBurst))
		r.Use(request.BodyLimit(cfg.MaxRequestBodyBytes))
		r.Use(request.ContentTypeJSON)
		r.Use(request.LatencyMiddleware(latency))
		for _, routes := range api {
			routes.Register(r)
		}
	})

	return s, nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down within the configured
// timeout. A failing task or listener stops the whole group.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("service listening",
			"environment", s.cfg.Environment,
			"address", httpServer.Addr,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ServerShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("HTTP server shutdown error", "error", err)
			return fmt.Errorf("HTTP server shutdown failed: %w", err)
		}
		s.logger.Info("HTTP server shutdown complete")
		return nil
	})
	for _, task := range s.tasks {
		g.Go(func() error {
			return task(gctx)
		})
	}
	return g.Wait()
}
