package usecase

import (
	"context"

	"github.com/iho/ledgerdash/internal/domain"
)

// CategoryUseCase handles category business logic.
type CategoryUseCase struct {
	env          Env
	categoryRepo CategoryRepository
	txnRepo      TransactionRepository
	budgetRepo   BudgetRepository
}

// NewCategoryUseCase creates a new CategoryUseCase.
func NewCategoryUseCase(
	env Env,
	categoryRepo CategoryRepository,
	txnRepo TransactionRepository,
	budgetRepo BudgetRepository,
) *CategoryUseCase {
	return &CategoryUseCase{
		env:          env,
		categoryRepo: categoryRepo,
		txnRepo:      txnRepo,
		budgetRepo:   budgetRepo,
	}
}

// CreateCategoryInput represents input for creating a category.
type CreateCategoryInput struct {
	UserID    string
	Name      string
	Type      domain.CategoryType
	Color     string
	IsDefault bool
}

// CreateCategory creates a new category. Names are not required to be unique.
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	category := &domain.Category{
		ID:        uc.env.IDGen.Generate(),
		UserID:    uc.env.owner(input.UserID),
		Name:      input.Name,
		Type:      input.Type,
		Color:     input.Color,
		IsDefault: input.IsDefault,
		CreatedAt: uc.env.now(),
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	err := uc.env.inTx(ctx, func(tx Transaction) error {
		return uc.categoryRepo.Create(ctx, tx, category)
	})
	if err != nil {
		return nil, err
	}

	uc.env.emit(ctx, domain.EventTypeCategoryCreated, domain.AggregateTypeCategory, category.ID, map[string]any{
		"name": category.Name,
		"type": string(category.Type),
	})

	return category, nil
}

// GetCategory retrieves a category by ID.
func (uc *CategoryUseCase) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	var category *domain.Category

	err := uc.env.inReadTx(ctx, func(tx Transaction) error {
		var err error
		category, err = uc.categoryRepo.GetByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}

// ListCategories lists categories in creation order, optionally filtered by type.
func (uc *CategoryUseCase) ListCategories(ctx context.Context, categoryType domain.CategoryType) ([]*domain.Category, error) {
	var categories []*domain.Category

	err := uc.env.inReadTx(ctx, func(tx Transaction) error {
		all, err := uc.categoryRepo.List(ctx, tx)
		if err != nil {
			return err
		}

		if categoryType == "" {
			categories = all
			return nil
		}

		categories = make([]*domain.Category, 0, len(all))
		for _, c := range all {
			if c.Type == categoryType {
				categories = append(categories, c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// UpdateCategoryInput holds the fields to change; nil fields are left as is.
type UpdateCategoryInput struct {
	Name  *string
	Type  *domain.CategoryType
	Color *string
}

// UpdateCategory merges the non-nil fields into the stored category.
func (uc *CategoryUseCase) UpdateCategory(ctx context.Context, id string, input UpdateCategoryInput) (*domain.Category, error) {
	var category *domain.Category

	err := uc.env.inTx(ctx, func(tx Transaction) error {
		current, err := uc.categoryRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		updated := *current
		if input.Name != nil {
			updated.Name = *input.Name
		}
		if input.Type != nil {
			updated.Type = *input.Type
		}
		if input.Color != nil {
			updated.Color = *input.Color
		}

		if err := updated.Validate(); err != nil {
			return err
		}

		if err := uc.categoryRepo.Update(ctx, tx, &updated); err != nil {
			return err
		}

		category = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.env.emit(ctx, domain.EventTypeCategoryUpdated, domain.AggregateTypeCategory, category.ID, map[string]any{
		"name": category.Name,
	})

	return category, nil
}

// DeleteCategory removes a category, detaches it from transactions and drops its budgets.
// Default categories may be deleted too.
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	var detached int

	err := uc.env.inTx(ctx, func(tx Transaction) error {
		if err := uc.categoryRepo.Delete(ctx, tx, id); err != nil {
			return err
		}

		var err error
		detached, err = uc.txnRepo.ClearCategory(ctx, tx, id)
		if err != nil {
			return err
		}

		budgets, err := uc.budgetRepo.ListByPeriod(ctx, tx, 0, 0)
		if err != nil {
			return err
		}

		for _, b := range budgets {
			if b.CategoryID != id {
				continue
			}
			if err := uc.budgetRepo.Delete(ctx, tx, b.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	uc.env.emit(ctx, domain.EventTypeCategoryDeleted, domain.AggregateTypeCategory, id, map[string]any{
		"detached_transactions": detached,
	})

	return nil
}
