package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iho/gospend/internal/domain"
)

const (
	getQuery    = `SELECT value FROM kv WHERE key = ?`
	upsertQuery = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
)

// Store implements usecase.KeyValueStore on the kv table of an on-device
// SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store. The schema must already be migrated.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, getQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores a value, replacing any previous one.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, upsertQuery, key, value, time.Now().UTC())
	return err
}

// Ping checks the database.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
