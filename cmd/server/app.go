package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/gospend/internal/adapter/http"
	"github.com/iho/gospend/internal/adapter/http/handler"
	"github.com/iho/gospend/internal/adapter/http/middleware"
	"github.com/iho/gospend/internal/infrastructure/config"
	"github.com/iho/gospend/internal/infrastructure/idgen"
	"github.com/iho/gospend/internal/infrastructure/metrics"
	"github.com/iho/gospend/internal/infrastructure/persister"
	"github.com/iho/gospend/internal/infrastructure/storage"
	"github.com/iho/gospend/internal/usecase"
)

const (
	limiterCleanupInterval = time.Minute
	limiterMaxIdle         = 10 * time.Minute
)

// app is the wired server process.
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	backend   *storage.Backend
	persister *persister.Persister
	session   *usecase.Session
	limiter   *middleware.RateLimiter
	server    *http.Server
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}

	backend, err := storage.Open(ctx, storage.FromAppConfig(cfg), logger)
	if err != nil {
		return nil, err
	}

	m := metrics.NewWithRegisterer(reg)

	p := persister.New(persister.Config{
		Store:      backend.Store,
		Logger:     logger,
		Metrics:    m,
		QueueSize:  cfg.PersistQueueSize,
		MaxRetries: cfg.PersistMaxRetries,
	})

	ledgerUC := usecase.NewLedgerUseCase(usecase.LedgerConfig{
		Store:         backend.Store,
		Saver:         p,
		IDGen:         idgen.NewULIDGenerator(),
		Metrics:       m,
		Logger:        logger,
		Location:      loc,
		RestoreOnOpen: cfg.RestoreOnOpen,
	})

	session, err := ledgerUC.Open(ctx)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	credentialUC := usecase.NewCredentialUseCase(backend.Store, logger)

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	var metricsHandler http.Handler
	if gatherer, ok := reg.(prometheus.Gatherer); ok {
		metricsHandler = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ExpenseHandler:    handler.NewExpenseHandler(session),
		CategoryHandler:   handler.NewCategoryHandler(),
		CredentialHandler: handler.NewCredentialHandler(credentialUC),
		HealthHandler:     handler.NewHealthHandler(backend.Store, backend.Name),
		IdempotencyStore:  backend.Idempotency,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		RateLimiter:       limiter,
		Logger:            logger,
		HTTPMetrics:       middleware.NewHTTPMetrics(reg),
		MetricsHandler:    metricsHandler,
	})

	return &app{
		cfg:       cfg,
		logger:    logger,
		backend:   backend,
		persister: p,
		session:   session,
		limiter:   limiter,
		server:    newHTTPServer(cfg, router),
	}, nil
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

// run serves until ctx is done. The server is stopped first, then the ledger
// session saves its final snapshot, then the persister drains and the store
// is closed.
func (a *app) run(ctx context.Context) error {
	persistCtx, stopPersister := context.WithCancel(context.Background())
	defer stopPersister()

	persistDone := make(chan struct{})
	go func() {
		defer close(persistDone)
		_ = a.persister.Run(persistCtx)
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Str("addr", a.server.Addr).Msg("starting server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	if a.limiter != nil {
		g.Go(func() error {
			err := a.limiter.Run(gctx, limiterCleanupInterval, limiterMaxIdle)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	err := g.Wait()

	closeCtx, cancel := context.WithTimeout(context.Background(), usecase.DefaultCloseTimeout)
	defer cancel()
	if cerr := a.session.Close(closeCtx); cerr != nil {
		a.logger.Error().Err(cerr).Msg("failed to save ledger on shutdown")
	}

	stopPersister()
	<-persistDone

	if cerr := a.backend.Close(); cerr != nil {
		a.logger.Error().Err(cerr).Msg("failed to close store")
	}

	return err
}
