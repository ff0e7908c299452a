package memory

import (
	"context"
	"sync"
	"time"
)

const (
	processing = "processing"

	// sweepInterval is the minimum time between scans for expired entries.
	sweepInterval = time.Minute
)

type idempotencyEntry struct {
	value     []byte
	expiresAt time.Time
}

// IdempotencyStore implements usecase.IdempotencyStore in process memory for
// deployments without Redis. Expired entries are dropped by a sweep that
// runs inside CheckAndSet at most once per sweepInterval.
type IdempotencyStore struct {
	mu        sync.Mutex
	entries   map[string]idempotencyEntry
	now       func() time.Time
	lastSweep time.Time
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		entries: make(map[string]idempotencyEntry),
		now:     time.Now,
	}
}

// CheckAndSet atomically checks if key exists, sets if not.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		return true, append([]byte(nil), e.value...), nil
	}

	value := response
	if value == nil {
		value = []byte(processing)
	}
	s.entries[key] = idempotencyEntry{value: append([]byte(nil), value...), expiresAt: now.Add(ttl)}

	return false, nil, nil
}

// Update updates an existing idempotency key with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = idempotencyEntry{value: append([]byte(nil), response...), expiresAt: s.now().Add(ttl)}
	return nil
}

// Release drops the entry for key.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

func (s *IdempotencyStore) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now

	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}
