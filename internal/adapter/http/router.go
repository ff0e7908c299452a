package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gospend/internal/adapter/http/handler"
	"github.com/iho/gospend/internal/adapter/http/middleware"
	"github.com/iho/gospend/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ExpenseHandler    *handler.ExpenseHandler
	CategoryHandler   *handler.CategoryHandler
	CredentialHandler *handler.CredentialHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	IdempotencyTTL    time.Duration
	RateLimiter       *middleware.RateLimiter
	Logger            zerolog.Logger
	// HTTPMetrics instruments every request; nil disables it.
	HTTPMetrics *middleware.HTTPMetrics
	// MetricsHandler serves /metrics; nil selects promhttp.Handler.
	MetricsHandler http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.AllowContentType("application/json"))

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Categories
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", cfg.CategoryHandler.List)
			r.Get("/{name}/icon", cfg.CategoryHandler.Icon)
		})

		// Expenses
		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", cfg.ExpenseHandler.Create)
			r.Get("/", cfg.ExpenseHandler.List)
			r.Patch("/{id}", cfg.ExpenseHandler.Update)
			r.Delete("/{id}", cfg.ExpenseHandler.Delete)
		})

		// Ledger views
		r.Get("/summary", cfg.ExpenseHandler.Summary)
		r.Get("/calendar", cfg.ExpenseHandler.Calendar)
		r.Get("/days/{date}/total", cfg.ExpenseHandler.DayTotal)

		// Account
		r.Get("/account", cfg.CredentialHandler.Status)
		r.Post("/signup", cfg.CredentialHandler.SignUp)
		r.Post("/login", cfg.CredentialHandler.Login)
		r.Post("/start", cfg.CredentialHandler.Start)
		r.Post("/recover", cfg.CredentialHandler.Recover)
		r.Get("/profile", cfg.CredentialHandler.Profile)
	})

	return r
}
