package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// claimMarker is stored while the first request for a key is still running.
const claimMarker = "processing"

// IdempotencyStore keeps replayable API responses next to the ledger keys.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates an IdempotencyStore under prefix + "idempotency:".
// An empty prefix selects DefaultPrefix.
func NewIdempotencyStore(client *redis.Client, prefix string) *IdempotencyStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &IdempotencyStore{
		client: client,
		prefix: prefix + "idempotency:",
	}
}

// CheckAndSet claims key with SETNX. When the key is already held the stored
// value is returned, which is the claim marker while the first request runs.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	k := s.prefix + key

	claim := []byte(claimMarker)
	if response != nil {
		claim = response
	}

	ok, err := s.client.SetNX(ctx, k, claim, ttl).Result()
	switch {
	case err != nil:
		return false, nil, err
	case ok:
		return false, nil, nil
	}

	held, err := s.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET; report it as held so the caller retries.
		return true, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	return true, held, nil
}

// Update replaces the claim with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, response, ttl).Err()
}

// Release deletes the claim. Releasing a missing key is not an error.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
