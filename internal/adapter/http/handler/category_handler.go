package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gospend/internal/adapter/http/dto"
	"github.com/iho/gospend/internal/domain"
)

// CategoryHandler serves the category registry.
type CategoryHandler struct{}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// List returns the categories in display order.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.ListCategoriesResponse{
		Categories:  dto.CategoriesFromDomain(domain.Categories()),
		DefaultIcon: domain.DefaultIcon,
	})
}

// Icon resolves the icon of {name}. Unknown names get the default icon.
func (h *CategoryHandler) Icon(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	_, known := domain.LookupCategory(name)

	writeJSON(w, http.StatusOK, dto.IconResponse{
		Name:  name,
		Icon:  domain.IconFor(name),
		Known: known,
	})
}
