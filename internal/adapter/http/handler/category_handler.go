package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ledgerdash/internal/adapter/http/dto"
	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

// CategoryService defines the behavior needed by CategoryHandler.
type CategoryService interface {
	CreateCategory(ctx context.Context, input usecase.CreateCategoryInput) (*domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context, categoryType domain.CategoryType) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, input usecase.UpdateCategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// CategoryHandler handles category-related HTTP requests.
type CategoryHandler struct {
	categoryUC CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryUC CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryUC: categoryUC}
}

// Create creates a new category.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.categoryUC.CreateCategory(r.Context(), req.ToUseCaseInput())
	if err != nil {
		handleError(w, r, err, "failed to create category")
		return
	}

	writeJSON(w, http.StatusCreated, dto.CategoryFromDomain(category))
}

// Get retrieves a category by ID.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.categoryUC.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "failed to get category")
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryFromDomain(category))
}

// List lists categories, optionally filtered by ?type=income|expense.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categoryType := domain.CategoryType(r.URL.Query().Get("type"))
	if categoryType != "" && !categoryType.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid category type", string(categoryType))
		return
	}

	categories, err := h.categoryUC.ListCategories(r.Context(), categoryType)
	if err != nil {
		handleError(w, r, err, "failed to list categories")
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoriesFromDomain(categories))
}

// Update applies a partial update to a category.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.categoryUC.UpdateCategory(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		handleError(w, r, err, "failed to update category")
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryFromDomain(category))
}

// Delete removes a category and detaches it from transactions.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.categoryUC.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err, "failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
