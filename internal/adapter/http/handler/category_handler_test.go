package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/gospend/internal/adapter/http/dto"
	"github.com/iho/gospend/internal/domain"
)

func TestCategoryHandler_List(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCategoryHandler().List(rec, httptest.NewRequest(http.MethodGet, "/categories", nil))

	var resp dto.ListCategoriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Categories) != len(domain.Categories()) {
		t.Fatalf("expected %d categories, got %d", len(domain.Categories()), len(resp.Categories))
	}
	if resp.DefaultIcon != domain.DefaultIcon {
		t.Fatalf("expected default icon %s, got %s", domain.DefaultIcon, resp.DefaultIcon)
	}
}

func TestCategoryHandler_Icon(t *testing.T) {
	tests := []struct {
		name      string
		wantIcon  string
		wantKnown bool
	}{
		{"Dining Out", "food", true},
		{"Subscriptions", "credit-card-plus", true},
		{"Crypto", domain.DefaultIcon, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withURLParams(httptest.NewRequest(http.MethodGet, "/categories/x/icon", nil), "name", tt.name)
			rec := httptest.NewRecorder()

			NewCategoryHandler().Icon(rec, req)

			var resp dto.IconResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Icon != tt.wantIcon || resp.Known != tt.wantKnown {
				t.Fatalf("unexpected icon response %+v", resp)
			}
		})
	}
}
