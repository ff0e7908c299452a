package postgres

import (
	"context"
	"io/fs"
	"testing"
	"time"
)

func TestNewPoolInvalidURL(t *testing.T) {
	if _, err := NewPool(context.Background(), PoolConfig{DatabaseURL: "not-a-url"}); err == nil {
		t.Fatalf("expected error when parsing invalid URL")
	}
}

func TestPoolConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     PoolConfig
		maxConn int32
		minConn int32
		appName string
	}{
		{
			name:    "explicit limits",
			cfg:     PoolConfig{DatabaseURL: "postgres://u:p@localhost:5432/gospend", MaxConns: 4, MinConns: 1},
			maxConn: 4,
			minConn: 1,
			appName: applicationName,
		},
		{
			name:    "min clamped to max",
			cfg:     PoolConfig{DatabaseURL: "postgres://u:p@localhost:5432/gospend", MaxConns: 2, MinConns: 8},
			maxConn: 2,
			minConn: 2,
			appName: applicationName,
		},
		{
			name:    "url application name wins",
			cfg:     PoolConfig{DatabaseURL: "postgres://u:p@localhost:5432/gospend?application_name=phone", MaxConns: 3},
			maxConn: 3,
			minConn: 0,
			appName: "phone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, err := poolConfig(tt.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if pc.MaxConns != tt.maxConn || pc.MinConns != tt.minConn {
				t.Fatalf("expected max=%d min=%d, got max=%d min=%d", tt.maxConn, tt.minConn, pc.MaxConns, pc.MinConns)
			}
			if got := pc.ConnConfig.RuntimeParams["application_name"]; got != tt.appName {
				t.Fatalf("expected application_name %q, got %q", tt.appName, got)
			}
			if pc.HealthCheckPeriod != healthCheckPeriod {
				t.Fatalf("expected health check period %s, got %s", healthCheckPeriod, pc.HealthCheckPeriod)
			}
		})
	}
}

func TestNewPoolPingFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewPool(ctx, PoolConfig{
		DatabaseURL: "postgres://invalid:5432/db?connect_timeout=1",
		MaxConns:    1,
	})
	if err == nil {
		t.Fatalf("expected error when pool cannot connect")
	}
}

func TestRunMigrationsInvalidURL(t *testing.T) {
	if err := RunMigrations("not-a-url"); err == nil {
		t.Fatalf("expected error for invalid database URL")
	}
}

func TestMigrationsAreEmbedded(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("expected embedded up migrations")
	}
}
