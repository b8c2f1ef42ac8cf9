package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/ledgerdash/internal/adapter/http/dto"
	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

// DashboardService defines the behavior needed by DashboardHandler.
type DashboardService interface {
	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	GetCategoryBreakdown(ctx context.Context, year int, month time.Month) ([]domain.CategoryTotal, error)
}

// DashboardHandler serves the dashboard and analytics aggregates.
type DashboardHandler struct {
	dashboardUC DashboardService
	clock       usecase.Clock
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardUC DashboardService, clock usecase.Clock) *DashboardHandler {
	return &DashboardHandler{dashboardUC: dashboardUC, clock: clock}
}

// Stats returns the dashboard stats.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardUC.GetDashboardStats(r.Context())
	if err != nil {
		handleError(w, r, err, "failed to compute dashboard stats")
		return
	}

	writeJSON(w, http.StatusOK, dto.DashboardStatsFromDomain(stats))
}

// CategoryBreakdown returns expenses per category for ?year=&month=,
// defaulting to the current month.
func (h *DashboardHandler) CategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r, h.clock.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", err.Error())
		return
	}

	totals, err := h.dashboardUC.GetCategoryBreakdown(r.Context(), year, month)
	if err != nil {
		handleError(w, r, err, "failed to compute category breakdown")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"year":       year,
		"month":      int(month),
		"categories": dto.CategoryTotalsFromDomain(totals),
	})
}
