package memory

import (
	"context"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

// BudgetRepository implements usecase.BudgetRepository.
type BudgetRepository struct {
	store *Store
}

// NewBudgetRepository creates a new BudgetRepository.
func NewBudgetRepository(store *Store) *BudgetRepository {
	return &BudgetRepository{store: store}
}

// Create stores a new budget.
func (r *BudgetRepository) Create(ctx context.Context, tx usecase.Transaction, budget *domain.Budget) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if r.store.budgets.has(budget.ID) {
		return domain.ErrDuplicateID
	}

	r.store.budgets.insert(budget.ID, budget)
	t.onRollback(func() { r.store.budgets.remove(budget.ID) })

	return nil
}

// GetByID retrieves a budget by ID.
func (r *BudgetRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.Budget, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	budget, ok := r.store.budgets.get(id)
	if !ok {
		return nil, domain.ErrBudgetNotFound
	}

	return budget, nil
}

// Update replaces the stored budget.
func (r *BudgetRepository) Update(ctx context.Context, tx usecase.Transaction, budget *domain.Budget) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if !r.store.budgets.has(budget.ID) {
		return domain.ErrBudgetNotFound
	}

	old := r.store.budgets.replace(budget.ID, budget)
	t.onRollback(func() { r.store.budgets.replace(old.ID, old) })

	return nil
}

// Delete removes a budget.
func (r *BudgetRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	old, index, ok := r.store.budgets.remove(id)
	if !ok {
		return domain.ErrBudgetNotFound
	}

	t.onRollback(func() { r.store.budgets.insertAt(id, old, index) })

	return nil
}

// ListByPeriod returns budgets for the given month. A zero year or month matches any.
func (r *BudgetRepository) ListByPeriod(ctx context.Context, tx usecase.Transaction, year, month int) ([]*domain.Budget, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return r.store.budgets.filter(func(b *domain.Budget) bool {
		return (year == 0 || b.Year == year) && (month == 0 || b.Month == month)
	}), nil
}

var _ usecase.BudgetRepository = (*BudgetRepository)(nil)
