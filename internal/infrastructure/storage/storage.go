package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	memoryRepo "github.com/iho/gospend/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gospend/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gospend/internal/adapter/repository/redis"
	sqliteRepo "github.com/iho/gospend/internal/adapter/repository/sqlite"
	"github.com/iho/gospend/internal/infrastructure/config"
	"github.com/iho/gospend/internal/infrastructure/postgres"
	"github.com/iho/gospend/internal/infrastructure/redis"
	"github.com/iho/gospend/internal/infrastructure/sqlite"
	"github.com/iho/gospend/internal/usecase"
)

// Config selects and locates the storage backend.
type Config struct {
	Backend     string
	SQLitePath  string
	RedisURL    string
	RedisPrefix string

	DatabaseURL      string
	DatabaseMaxConns int
	DatabaseMinConns int
}

// FromAppConfig extracts the storage settings.
func FromAppConfig(cfg *config.Config) Config {
	return Config{
		Backend:     cfg.StorageBackend,
		SQLitePath:  cfg.SQLitePath,
		RedisURL:    cfg.RedisURL,
		RedisPrefix: cfg.RedisPrefix,

		DatabaseURL:      cfg.DatabaseURL,
		DatabaseMaxConns: cfg.DatabaseMaxConns,
		DatabaseMinConns: cfg.DatabaseMinConns,
	}
}

// Backend is an opened key-value store and its matching idempotency store.
type Backend struct {
	Name        string
	Store       usecase.KeyValueStore
	Idempotency usecase.IdempotencyStore

	closers []func() error
}

// Close releases the backend connections.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

// Open opens the configured backend.
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", cfg.SQLitePath).Msg("opened sqlite store")

		return &Backend{
			Name:        config.BackendSQLite,
			Store:       sqliteRepo.NewStore(db),
			Idempotency: memoryRepo.NewIdempotencyStore(),
			closers:     []func() error{db.Close},
		}, nil

	case config.BackendRedis:
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("prefix", cfg.RedisPrefix).Msg("connected to redis")

		return &Backend{
			Name:        config.BackendRedis,
			Store:       redisRepo.NewStore(client, cfg.RedisPrefix),
			Idempotency: redisRepo.NewIdempotencyStore(client, cfg.RedisPrefix),
			closers:     []func() error{client.Close},
		}, nil

	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			DatabaseURL: cfg.DatabaseURL,
			MaxConns:    cfg.DatabaseMaxConns,
			MinConns:    cfg.DatabaseMinConns,
		})
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info().Msg("connected to postgres")

		closePool := func() error {
			pool.Close()
			return nil
		}

		return &Backend{
			Name:        config.BackendPostgres,
			Store:       postgresRepo.NewStore(pool),
			Idempotency: memoryRepo.NewIdempotencyStore(),
			closers:     []func() error{closePool},
		}, nil

	case config.BackendMemory:
		logger.Warn().Msg("using in-memory store, data will not survive a restart")

		return &Backend{
			Name:        config.BackendMemory,
			Store:       memoryRepo.NewStore(),
			Idempotency: memoryRepo.NewIdempotencyStore(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
