package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ledgerdash/internal/adapter/http/dto"
	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

// BudgetService defines the behavior needed by BudgetHandler.
type BudgetService interface {
	CreateBudget(ctx context.Context, input usecase.CreateBudgetInput) (*domain.Budget, error)
	UpdateBudget(ctx context.Context, id string, input usecase.UpdateBudgetInput) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, id string) error
	ListBudgets(ctx context.Context, year, month int) ([]*domain.Budget, error)
	CompareBudgets(ctx context.Context, year, month int) ([]domain.BudgetComparison, error)
}

// BudgetHandler handles budget-related HTTP requests.
type BudgetHandler struct {
	budgetUC BudgetService
	clock    usecase.Clock
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetUC BudgetService, clock usecase.Clock) *BudgetHandler {
	return &BudgetHandler{budgetUC: budgetUC, clock: clock}
}

// Create creates a budget.
func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBudgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	budget, err := h.budgetUC.CreateBudget(r.Context(), req.ToUseCaseInput())
	if err != nil {
		handleError(w, r, err, "failed to create budget")
		return
	}

	writeJSON(w, http.StatusCreated, dto.BudgetFromDomain(budget))
}

// List lists budgets. Without ?year= or ?month= every period matches.
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	year := parseIntQuery(r, "year", 0)
	month := parseIntQuery(r, "month", 0)

	budgets, err := h.budgetUC.ListBudgets(r.Context(), year, month)
	if err != nil {
		handleError(w, r, err, "failed to list budgets")
		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetsFromDomain(budgets))
}

// Update applies a partial update to a budget.
func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateBudgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	budget, err := h.budgetUC.UpdateBudget(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		handleError(w, r, err, "failed to update budget")
		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetFromDomain(budget))
}

// Delete removes a budget.
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.budgetUC.DeleteBudget(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err, "failed to delete budget")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Compare compares the budgets of ?year=&month= (default: this month) with spending.
func (h *BudgetHandler) Compare(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r, h.clock.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	comparisons, err := h.budgetUC.CompareBudgets(r.Context(), year, int(month))
	if err != nil {
		handleError(w, r, err, "failed to compare budgets")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"year":        year,
		"month":       int(month),
		"comparisons": dto.BudgetComparisonsFromDomain(comparisons),
	})
}
