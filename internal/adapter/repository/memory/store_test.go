package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/gospend/internal/domain"
)

func TestStoreSetGet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	value := []byte("abc")
	if err := s.Set(ctx, "k", value); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value[0] = 'z'

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != "abc" {
		t.Fatalf("expected stored copy abc, got %s", got)
	}
}

func TestIdempotencyStore(t *testing.T) {
	s := NewIdempotencyStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	exists, _, err := s.CheckAndSet(ctx, "key", nil, time.Minute)
	if err != nil || exists {
		t.Fatalf("expected first check to claim key, got exists=%v err=%v", exists, err)
	}

	exists, val, _ := s.CheckAndSet(ctx, "key", nil, time.Minute)
	if !exists || string(val) != processing {
		t.Fatalf("expected processing placeholder, got exists=%v val=%s", exists, val)
	}

	if err := s.Update(ctx, "key", []byte(`{"ok":true}`), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	_, val, _ = s.CheckAndSet(ctx, "key", nil, time.Minute)
	if string(val) != `{"ok":true}` {
		t.Fatalf("expected stored response, got %s", val)
	}

	now = now.Add(2 * time.Minute)
	exists, _, _ = s.CheckAndSet(ctx, "key", nil, time.Minute)
	if exists {
		t.Fatal("expected expired key to be claimable again")
	}
}

func TestIdempotencyStoreRelease(t *testing.T) {
	s := NewIdempotencyStore()
	ctx := context.Background()

	if exists, _, _ := s.CheckAndSet(ctx, "form", nil, time.Hour); exists {
		t.Fatal("expected first check to claim key")
	}
	if err := s.Release(ctx, "form"); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if exists, _, _ := s.CheckAndSet(ctx, "form", nil, time.Hour); exists {
		t.Fatal("expected released key to be claimable again")
	}

	if err := s.Release(ctx, "never-claimed"); err != nil {
		t.Fatalf("releasing a missing key failed: %v", err)
	}
}

func TestIdempotencyStoreSweepsExpiredEntries(t *testing.T) {
	s := NewIdempotencyStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		if _, _, err := s.CheckAndSet(ctx, k, nil, time.Second); err != nil {
			t.Fatalf("claim %s failed: %v", k, err)
		}
	}

	// Inside the sweep interval nothing is scanned, even though a-c expired.
	now = now.Add(30 * time.Second)
	s.CheckAndSet(ctx, "d", nil, time.Hour)
	if got := len(s.entries); got != 4 {
		t.Fatalf("expected 4 entries before the sweep, got %d", got)
	}

	now = now.Add(sweepInterval)
	s.CheckAndSet(ctx, "e", nil, time.Hour)
	if got := len(s.entries); got != 2 {
		t.Fatalf("expected only d and e to survive the sweep, got %d", got)
	}
	if _, ok := s.entries["d"]; !ok {
		t.Fatal("expected live entry d to be kept")
	}
}
