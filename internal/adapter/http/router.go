package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tripfund/tripfund/internal/adapter/http/handler"
	"github.com/tripfund/tripfund/internal/adapter/http/middleware"
	"github.com/tripfund/tripfund/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TripHandler       *handler.TripHandler
	MemberHandler     *handler.MemberHandler
	PaymentHandler    *handler.PaymentHandler
	BalanceHandler    *handler.BalanceHandler
	SettlementHandler *handler.SettlementHandler
	StatisticsHandler *handler.StatisticsHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	Logger            zerolog.Logger
	RateLimitPerSec   float64
	RateLimitBurst    int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimitPerSec > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimitPerSec, cfg.RateLimitBurst).Limit)
	}

	// Health and observability endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, 0)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", cfg.TripHandler.Create)

			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", cfg.TripHandler.Get)

				r.Route("/members", func(r chi.Router) {
					r.Post("/", cfg.MemberHandler.Create)
					r.Get("/", cfg.MemberHandler.List)
					r.Put("/contributions", cfg.MemberHandler.BatchContributions)
					r.Put("/{memberID}/contribution", cfg.MemberHandler.UpdateContribution)
				})

				r.Route("/payments", func(r chi.Router) {
					r.Post("/", cfg.PaymentHandler.Create)
					r.Get("/", cfg.PaymentHandler.List)
					r.Get("/{paymentID}", cfg.PaymentHandler.Get)
				})

				r.Get("/balances", cfg.BalanceHandler.Get)
				r.Get("/settlement", cfg.SettlementHandler.Get)
				r.Get("/statistics", cfg.StatisticsHandler.Get)
			})
		})
	})

	return r
}
