package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
)

// BudgetUseCase handles monthly spending budgets per expense category.
type BudgetUseCase struct {
	env          Env
	budgetRepo   BudgetRepository
	categoryRepo CategoryRepository
	txnRepo      TransactionRepository
}

// NewBudgetUseCase creates a new BudgetUseCase.
func NewBudgetUseCase(
	env Env,
	budgetRepo BudgetRepository,
	categoryRepo CategoryRepository,
	txnRepo TransactionRepository,
) *BudgetUseCase {
	return &BudgetUseCase{
		env:          env,
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		txnRepo:      txnRepo,
	}
}

// CreateBudgetInput represents input for creating a budget.
type CreateBudgetInput struct {
	UserID          string
	CategoryID      string
	Month           int
	Year            int
	EstimatedAmount decimal.Decimal
	PlannedAmount   decimal.Decimal
}

// CreateBudget creates a budget for an expense category and month.
func (uc *BudgetUseCase) CreateBudget(ctx context.Context, input CreateBudgetInput) (*domain.Budget, error) {
	now := uc.env.now()

	budget := &domain.Budget{
		ID:              uc.env.IDGen.Generate(),
		UserID:          uc.env.owner(input.UserID),
		CategoryID:      input.CategoryID,
		Month:           input.Month,
		Year:            input.Year,
		EstimatedAmount: input.EstimatedAmount,
		PlannedAmount:   input.PlannedAmount,
		ActualAmount:    decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := budget.Validate(); err != nil {
		return nil, err
	}

	err := uc.env.inTx(ctx, func(tx Transaction) error {
		if err := uc.checkCategory(ctx, tx, budget.CategoryID); err != nil {
			return err
		}
		return uc.budgetRepo.Create(ctx, tx, budget)
	})
	if err != nil {
		return nil, err
	}

	uc.env.emit(ctx, domain.EventTypeBudgetCreated, domain.AggregateTypeBudget, budget.ID, map[string]any{
		"category_id": budget.CategoryID,
		"period":      fmt.Sprintf("%04d-%02d", budget.Year, budget.Month),
	})

	return budget, nil
}

// UpdateBudgetInput holds the fields to change; nil fields are left as is.
type UpdateBudgetInput struct {
	CategoryID      *string
	Month           *int
	Year            *int
	EstimatedAmount *decimal.Decimal
	PlannedAmount   *decimal.Decimal
}

// UpdateBudget merges the non-nil fields into the stored budget.
func (uc *BudgetUseCase) UpdateBudget(ctx context.Context, id string, input UpdateBudgetInput) (*domain.Budget, error) {
	var budget *domain.Budget

	err := uc.env.inTx(ctx, func(tx Transaction) error {
		current, err := uc.budgetRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		updated := *current
		if input.CategoryID != nil {
			updated.CategoryID = *input.CategoryID
		}
		if input.Month != nil {
			updated.Month = *input.Month
		}
		if input.Year != nil {
			updated.Year = *input.Year
		}
		if input.EstimatedAmount != nil {
			updated.EstimatedAmount = *input.EstimatedAmount
		}
		if input.PlannedAmount != nil {
			updated.PlannedAmount = *input.PlannedAmount
		}

		if err := updated.Validate(); err != nil {
			return err
		}

		if err := uc.checkCategory(ctx, tx, updated.CategoryID); err != nil {
			return err
		}

		updated.UpdatedAt = uc.env.now()

		if err := uc.budgetRepo.Update(ctx, tx, &updated); err != nil {
			return err
		}

		budget = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.env.emit(ctx, domain.EventTypeBudgetUpdated, domain.AggregateTypeBudget, budget.ID, nil)

	return budget, nil
}

// DeleteBudget removes a budget.
func (uc *BudgetUseCase) DeleteBudget(ctx context.Context, id string) error {
	err := uc.env.inTx(ctx, func(tx Transaction) error {
		return uc.budgetRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	uc.env.emit(ctx, domain.EventTypeBudgetDeleted, domain.AggregateTypeBudget, id, nil)

	return nil
}

// ListBudgets returns the budgets of a period with ActualAmount filled in.
// A zero year or month matches any.
func (uc *BudgetUseCase) ListBudgets(ctx context.Context, year, month int) ([]*domain.Budget, error) {
	var budgets []*domain.Budget

	err := uc.env.inReadTx(ctx, func(tx Transaction) error {
		var err error
		budgets, err = uc.budgetRepo.ListByPeriod(ctx, tx, year, month)
		if err != nil {
			return err
		}

		spent, err := uc.spending(ctx, tx)
		if err != nil {
			return err
		}

		for _, b := range budgets {
			b.ActualAmount = spent.of(b.CategoryID, b.Year, b.Month)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return budgets, nil
}

// CompareBudgets compares each budget of the period with what was actually spent.
func (uc *BudgetUseCase) CompareBudgets(ctx context.Context, year, month int) ([]domain.BudgetComparison, error) {
	var comparisons []domain.BudgetComparison

	err := uc.env.inReadTx(ctx, func(tx Transaction) error {
		budgets, err := uc.budgetRepo.ListByPeriod(ctx, tx, year, month)
		if err != nil {
			return err
		}

		spent, err := uc.spending(ctx, tx)
		if err != nil {
			return err
		}

		categories, err := uc.categoryRepo.List(ctx, tx)
		if err != nil {
			return err
		}

		names := make(map[string]string, len(categories))
		for _, c := range categories {
			names[c.ID] = c.Name
		}

		comparisons = make([]domain.BudgetComparison, 0, len(budgets))
		for _, b := range budgets {
			actual := spent.of(b.CategoryID, b.Year, b.Month)
			comparisons = append(comparisons, b.Compare(names[b.CategoryID], actual))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return comparisons, nil
}

func (uc *BudgetUseCase) checkCategory(ctx context.Context, tx Transaction, categoryID string) error {
	category, err := uc.categoryRepo.GetByID(ctx, tx, categoryID)
	if err != nil {
		return err
	}

	if category.Type != domain.CategoryTypeExpense {
		return fmt.Errorf("%w: budgets need an expense category", domain.ErrCategoryTypeMismatch)
	}

	return nil
}

type spendingKey struct {
	categoryID string
	year       int
	month      time.Month
}

// spendingIndex sums expense amounts per category and month.
type spendingIndex map[spendingKey]decimal.Decimal

func (s spendingIndex) of(categoryID string, year, month int) decimal.Decimal {
	if v, ok := s[spendingKey{categoryID, year, time.Month(month)}]; ok {
		return v
	}
	return decimal.Zero
}

func (uc *BudgetUseCase) spending(ctx context.Context, tx Transaction) (spendingIndex, error) {
	txns, err := uc.txnRepo.List(ctx, tx)
	if err != nil {
		return nil, err
	}

	loc := uc.env.now().Location()
	index := make(spendingIndex)

	for _, t := range txns {
		if t.Type != domain.TransactionTypeExpense || t.CategoryID == "" {
			continue
		}

		d := t.Date.In(loc)
		key := spendingKey{t.CategoryID, d.Year(), d.Month()}
		index[key] = index.of(t.CategoryID, d.Year(), int(d.Month())).Add(t.Amount)
	}

	return index, nil
}
