package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/gospend/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a replayed response.
	IdempotencyReplayHeader = "X-Idempotency-Replay"
)

// storedResponse is the envelope kept for a completed request.
type storedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body,omitempty"`
}

// IdempotencyMiddleware applies a form submitted twice under the same
// Idempotency-Key once and replays the first 2xx answer to the duplicate.
// A non-2xx answer or a panic releases the key for a retry.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A zero ttl
// selects usecase.IdempotencyKeyTTL.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := scopedKey(r)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		seen, prior, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("idempotency check failed")
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}
		if seen {
			replay(w, prior)
			return
		}

		// A panicking handler leaves no answer worth replaying.
		defer func() {
			if rec := recover(); rec != nil {
				m.release(r, key)
				panic(rec)
			}
		}()

		var body bytes.Buffer
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Tee(&body)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		if status < 200 || status > 299 {
			m.release(r, key)
			return
		}

		data, err := json.Marshal(storedResponse{Status: status, Body: body.Bytes()})
		if err == nil {
			err = m.store.Update(r.Context(), key, data, m.ttl)
		}
		if err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("failed to cache idempotent response")
		}
	})
}

// release drops the claim on key so a corrected resubmission runs instead of
// getting 409 until the key expires.
func (m *IdempotencyMiddleware) release(r *http.Request, key string) {
	ctx := context.WithoutCancel(r.Context())
	if err := m.store.Release(ctx, key); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("failed to release idempotency key")
	}
}

// scopedKey returns the store key of a mutating request carrying an
// Idempotency-Key, or "" when the request is not subject to idempotency.
func scopedKey(r *http.Request) string {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return ""
	}

	key := r.Header.Get(IdempotencyKeyHeader)
	if key == "" {
		return ""
	}
	return r.Method + " " + r.URL.Path + " " + key
}

// replay writes a stored response. A claim without a stored envelope means
// the first request is still running or failed before completing.
func replay(w http.ResponseWriter, prior []byte) {
	var resp storedResponse
	if len(prior) == 0 || json.Unmarshal(prior, &resp) != nil || resp.Status == 0 {
		http.Error(w, "request with this idempotency key is in progress", http.StatusConflict)
		return
	}

	w.Header().Set(IdempotencyReplayHeader, "true")
	if len(resp.Body) > 0 {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(resp.Status)
	w.Write(resp.Body)
}
