package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// KeyValueStore is the on-device key-value storage.
// Get returns domain.ErrKeyNotFound for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
}

// Saver schedules best-effort asynchronous writes.
// The returned channel receives exactly one result and is then closed.
// Callers may ignore it or wait on it.
type Saver interface {
	Save(ctx context.Context, key string, value []byte) <-chan error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// MetricsRecorder receives ledger activity.
type MetricsRecorder interface {
	ExpenseAdded(category string, amount decimal.Decimal)
	ExpenseEdited()
	ExpenseDeleted()
	ObserveTotals(totalExpense, totalIncome decimal.Decimal)
}

// IdempotencyKeyTTL is how long a claimed idempotency key is remembered.
const IdempotencyKeyTTL = 24 * time.Hour

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claim so the request can be retried under the same key.
	Release(ctx context.Context, key string) error
}

type noopMetrics struct{}

func (noopMetrics) ExpenseAdded(string, decimal.Decimal)           {}
func (noopMetrics) ExpenseEdited()                                 {}
func (noopMetrics) ExpenseDeleted()                                {}
func (noopMetrics) ObserveTotals(decimal.Decimal, decimal.Decimal) {}
