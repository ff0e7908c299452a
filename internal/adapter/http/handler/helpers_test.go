package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gospend/internal/adapter/http/dto"
	"github.com/iho/gospend/internal/domain"
	"github.com/iho/gospend/internal/usecase"
)

func withURLParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestParseIDParam(t *testing.T) {
	req := withURLParams(httptest.NewRequest(http.MethodPatch, "/api/v1/expenses/42", nil), "id", "42")
	id, err := parseIDParam(req)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	req = withURLParams(httptest.NewRequest(http.MethodPatch, "/api/v1/expenses/lunch", nil), "id", "lunch")
	_, err = parseIDParam(req)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), `"lunch"`)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrEmptyAmount), http.StatusBadRequest},
		{fmt.Errorf("edit: %w", domain.ErrExpenseNotFound), http.StatusNotFound},
		{domain.ErrCredentialNotFound, http.StatusNotFound},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{usecase.ErrSessionClosed, http.StatusServiceUnavailable},
		{fmt.Errorf("%w: disk full", domain.ErrPersistence), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestWriteDomainError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeDomainError(rr, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrInvalidAmount), "failed to add expense")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "failed to add expense", resp.Error)
	assert.Contains(t, resp.Message, domain.ErrInvalidAmount.Error())
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	body := `{"memo":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/expenses", strings.NewReader(body))

	var v dto.AddExpenseRequest
	err := decodeJSON(httptest.NewRecorder(), req, &v)

	var tooLarge *http.MaxBytesError
	assert.ErrorAs(t, err, &tooLarge)
}
