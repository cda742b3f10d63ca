package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/digitbank/bankledger/internal/adapter/http/handler"
	"github.com/digitbank/bankledger/internal/adapter/http/middleware"
	"github.com/digitbank/bankledger/internal/infrastructure/auth"
	"github.com/digitbank/bankledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	LedgerHandler    *handler.LedgerHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	JWTManager       *auth.JWTManager
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
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

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.Actor(cfg.JWTManager))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/current", cfg.AccountHandler.CreateCurrent)
			r.Post("/saving", cfg.AccountHandler.CreateSaving)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Post("/{id}/debit", cfg.LedgerHandler.Debit)
			r.Post("/{id}/credit", cfg.LedgerHandler.Credit)
			r.Get("/{id}/operations", cfg.LedgerHandler.Operations)
			r.Get("/{id}/history", cfg.LedgerHandler.History)
			r.Get("/{id}/reconciliation", cfg.LedgerHandler.Reconcile)
		})

		// Customers
		r.Get("/customers/{customerId}/accounts", cfg.AccountHandler.ListByCustomer)

		// Transfers
		r.Post("/transfers", cfg.LedgerHandler.Transfer)

		// Ledger
		r.Get("/ledger/consistency", cfg.LedgerHandler.Consistency)
	})

	return r
}
