package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const readinessTimeout = 5 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	store   Pinger
	backend string
}

// NewHealthHandler creates a new HealthHandler for the named storage backend.
func NewHealthHandler(store Pinger, backend string) *HealthHandler {
	return &HealthHandler{
		store:   store,
		backend: backend,
	}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness reports whether the storage backend answers a ping. Saves are
// queued in memory, so a failing backend means edits would be lost on exit.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("backend", h.backend).Msg("readiness check failed")
		writeError(w, http.StatusServiceUnavailable, h.backend+" unhealthy", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready", h.backend: "ok"})
}
