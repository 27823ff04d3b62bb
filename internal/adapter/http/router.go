package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/contractledger/internal/adapter/http/handler"
	"github.com/iho/contractledger/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	VisitHandler  *handler.VisitHandler
	BatchHandler  *handler.BatchHandler
	LedgerHandler *handler.LedgerHandler
	HealthHandler *handler.HealthHandler
	Logger        zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/schedules/{id}", func(r chi.Router) {
			r.Post("/visit", cfg.VisitHandler.Visit)
			r.Get("/entries", cfg.LedgerHandler.ListLines)
			r.Get("/totals", cfg.LedgerHandler.GetTotals)
		})

		r.Post("/batch/runs", cfg.BatchHandler.Run)
	})

	return r
}
