package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gospend/internal/domain"
	"github.com/iho/gospend/internal/infrastructure/config"
)

func TestOpenBackends(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "sqlite", cfg: Config{Backend: config.BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "ledger.db")}},
		{name: "default is sqlite", cfg: Config{SQLitePath: filepath.Join(t.TempDir(), "ledger.db")}},
		{name: "redis", cfg: Config{Backend: config.BackendRedis, RedisURL: fmt.Sprintf("redis://%s", mr.Addr()), RedisPrefix: "t:"}},
		{name: "memory", cfg: Config{Backend: config.BackendMemory}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			backend, err := Open(ctx, tt.cfg, zerolog.Nop())
			require.NoError(t, err)
			defer backend.Close()

			require.NoError(t, backend.Store.Ping(ctx))
			require.NoError(t, backend.Store.Set(ctx, domain.KeyTotalIncome, []byte(`"5"`)))

			got, err := backend.Store.Get(ctx, domain.KeyTotalIncome)
			require.NoError(t, err)
			assert.Equal(t, `"5"`, string(got))

			exists, _, err := backend.Idempotency.CheckAndSet(ctx, "k", nil, 0)
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "floppy"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestOpenPostgresInvalidURL(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: config.BackendPostgres, DatabaseURL: "not-a-url"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestFromAppConfig(t *testing.T) {
	cfg := FromAppConfig(&config.Config{
		StorageBackend:   "redis",
		RedisURL:         "redis://x",
		RedisPrefix:      "p:",
		SQLitePath:       "a.db",
		DatabaseURL:      "postgres://db",
		DatabaseMaxConns: 2,
	})
	assert.Equal(t, Config{
		Backend:          "redis",
		SQLitePath:       "a.db",
		RedisURL:         "redis://x",
		RedisPrefix:      "p:",
		DatabaseURL:      "postgres://db",
		DatabaseMaxConns: 2,
	}, cfg)
}
