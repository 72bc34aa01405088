package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"salescli/internal/config"
	apierrors "salescli/internal/errors"
	"salescli/internal/middleware"
)

// NewRouter assembles the report server router with the full middleware stack.
func NewRouter(cfg *config.Config, logger *slog.Logger, reports *ReportHandler, health *HealthHandler) chi.Router {
	r := chi.NewRouter()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := middleware.NewHTTPMetrics(registry)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(metrics.Handler)
	r.Use(middleware.Compress(5))

	if cfg.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.RequestTimeout, logger))
	}

	if cfg.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.Security.RateLimit.RPS, cfg.Security.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}

	r.Get("/healthz", health.HealthCheck)
	r.Get("/livez", health.LivenessCheck)
	r.Get("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", health.Version)
		r.Mount("/reports", reports.Routes())
	})

	errorHandler := apierrors.NewErrorHandler(logger)
	r.NotFound(errorHandler.NotFound)

	return r
}
