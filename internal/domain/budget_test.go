package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBudget_Compare(t *testing.T) {
	tests := []struct {
		name       string
		planned    decimal.Decimal
		actual     decimal.Decimal
		status     BudgetStatus
		percentage string
		difference string
	}{
		{"well under", decimal.NewFromInt(100), decimal.NewFromInt(50), BudgetStatusUnder, "50", "50"},
		{"on track at ninety percent", decimal.NewFromInt(100), decimal.NewFromInt(90), BudgetStatusOnTrack, "90", "10"},
		{"exactly on budget", decimal.NewFromInt(100), decimal.NewFromInt(100), BudgetStatusOnTrack, "100", "0"},
		{"over budget", decimal.NewFromInt(100), decimal.NewFromInt(120), BudgetStatusOver, "120", "-20"},
		{"nothing planned and spent", decimal.Zero, decimal.NewFromInt(5), BudgetStatusOver, "0", "-5"},
		{"rounded percentage", decimal.NewFromInt(3), decimal.NewFromInt(1), BudgetStatusUnder, "33.33", "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Budget{ID: "b1", CategoryID: "c1", PlannedAmount: tt.planned}
			cmp := b.Compare("Courses", tt.actual)

			if cmp.Status != tt.status {
				t.Errorf("expected status %s, got %s", tt.status, cmp.Status)
			}

			if !cmp.Percentage.Equal(decimal.RequireFromString(tt.percentage)) {
				t.Errorf("expected percentage %s, got %s", tt.percentage, cmp.Percentage)
			}

			if !cmp.Difference.Equal(decimal.RequireFromString(tt.difference)) {
				t.Errorf("expected difference %s, got %s", tt.difference, cmp.Difference)
			}

			if cmp.CategoryName != "Courses" || cmp.CategoryID != "c1" {
				t.Errorf("expected category to be carried over, got %+v", cmp)
			}
		})
	}
}

func TestBudget_Validate(t *testing.T) {
	valid := Budget{Month: 5, Year: 2024, PlannedAmount: decimal.NewFromInt(10)}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	badMonth := Budget{Month: 13, Year: 2024}
	if err := badMonth.Validate(); !errors.Is(err, ErrInvalidBudgetPeriod) {
		t.Errorf("expected ErrInvalidBudgetPeriod, got %v", err)
	}

	negative := Budget{Month: 1, Year: 2024, PlannedAmount: decimal.NewFromInt(-1)}
	if err := negative.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}
