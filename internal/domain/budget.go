package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetStatus summarizes actual spending against the planned amount.
type BudgetStatus string

const (
	BudgetStatusUnder   BudgetStatus = "under"
	BudgetStatusOnTrack BudgetStatus = "on-track"
	BudgetStatusOver    BudgetStatus = "over"
)

// OnTrackThreshold is the share of the planned amount from which a budget is on track.
var OnTrackThreshold = decimal.NewFromFloat(0.9)

// Budget plans spending for one expense category in one calendar month.
// ActualAmount is derived from transactions at read time.
type Budget struct {
	ID              string
	UserID          string
	CategoryID      string
	Month           int
	Year            int
	EstimatedAmount decimal.Decimal
	PlannedAmount   decimal.Decimal
	ActualAmount    decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the budget period and amounts.
func (b *Budget) Validate() error {
	if b.Month < 1 || b.Month > 12 || b.Year < 1 {
		return ErrInvalidBudgetPeriod
	}

	if err := ValidateAmount(b.EstimatedAmount); err != nil {
		return err
	}

	return ValidateAmount(b.PlannedAmount)
}

// BudgetComparison compares a budget with what was actually spent.
type BudgetComparison struct {
	BudgetID     string
	CategoryID   string
	CategoryName string
	Budgeted     decimal.Decimal
	Actual       decimal.Decimal
	Difference   decimal.Decimal
	Percentage   decimal.Decimal
	Status       BudgetStatus
}

// Compare builds the comparison of b against actual spending.
func (b *Budget) Compare(categoryName string, actual decimal.Decimal) BudgetComparison {
	percentage := decimal.Zero
	if !b.PlannedAmount.IsZero() {
		percentage = actual.Div(b.PlannedAmount).Mul(decimal.NewFromInt(100)).Round(2)
	}

	status := BudgetStatusUnder
	switch {
	case actual.GreaterThan(b.PlannedAmount):
		status = BudgetStatusOver
	case actual.GreaterThanOrEqual(b.PlannedAmount.Mul(OnTrackThreshold)):
		status = BudgetStatusOnTrack
	}

	return BudgetComparison{
		BudgetID:     b.ID,
		CategoryID:   b.CategoryID,
		CategoryName: categoryName,
		Budgeted:     b.PlannedAmount,
		Actual:       actual,
		Difference:   b.PlannedAmount.Sub(actual),
		Percentage:   percentage,
		Status:       status,
	}
}
