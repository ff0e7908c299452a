package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newMetricsRouter(m *HTTPMetrics) http.Handler {
	r := chi.NewRouter()
	r.Use(m.Wrap)
	r.Route("/api/v1", func(r chi.Router) {
		r.Patch("/expenses/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		r.Get("/days/{date}/total", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"total":"0"}`))
		})
	})
	return r
}

func TestHTTPMetricsLabelsByRoutePattern(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		route  string
		status string
	}{
		{"expense id collapsed", http.MethodPatch, "/api/v1/expenses/17", "/api/v1/expenses/{id}", "404"},
		{"date collapsed", http.MethodGet, "/api/v1/days/2024-05-01/total", "/api/v1/days/{date}/total", "200"},
		{"unknown path", http.MethodGet, "/nowhere/42", unmatchedRoute, "404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewHTTPMetrics(prometheus.NewRegistry())
			router := newMetricsRouter(m)

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(tt.method, tt.route, tt.status)))
			assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
			assert.Zero(t, testutil.ToFloat64(m.inFlight))
		})
	}
}

func TestHTTPMetricsTracksInFlight(t *testing.T) {
	m := NewHTTPMetrics(prometheus.NewRegistry())

	var during float64
	h := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(m.inFlight)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, 1.0, during)
	assert.Zero(t, testutil.ToFloat64(m.inFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, unmatchedRoute, "200")))
}
