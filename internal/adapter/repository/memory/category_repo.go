package memory

import (
	"context"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	store *Store
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

// Create creates a new category.
func (r *CategoryRepository) Create(ctx context.Context, tx usecase.Transaction, category *domain.Category) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if r.store.categories.has(category.ID) {
		return domain.ErrDuplicateID
	}

	r.store.categories.insert(category.ID, category)
	t.onRollback(func() { r.store.categories.remove(category.ID) })

	return nil
}

// GetByID retrieves a category by ID.
func (r *CategoryRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.Category, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	category, ok := r.store.categories.get(id)
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}

	return category, nil
}

// Update replaces the stored category.
func (r *CategoryRepository) Update(ctx context.Context, tx usecase.Transaction, category *domain.Category) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if !r.store.categories.has(category.ID) {
		return domain.ErrCategoryNotFound
	}

	old := r.store.categories.replace(category.ID, category)
	t.onRollback(func() { r.store.categories.replace(old.ID, old) })

	return nil
}

// Delete removes a category.
func (r *CategoryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	old, index, ok := r.store.categories.remove(id)
	if !ok {
		return domain.ErrCategoryNotFound
	}

	t.onRollback(func() { r.store.categories.insertAt(id, old, index) })

	return nil
}

// List returns all categories in creation order.
func (r *CategoryRepository) List(ctx context.Context, tx usecase.Transaction) ([]*domain.Category, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return r.store.categories.all(), nil
}

var _ usecase.CategoryRepository = (*CategoryRepository)(nil)
