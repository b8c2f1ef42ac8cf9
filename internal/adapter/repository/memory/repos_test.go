package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
)

func TestAccountRepositoryNotFound(t *testing.T) {
	store := NewStore()
	repo := NewAccountRepository(store)
	ctx := context.Background()

	tx, _ := NewTxManager(store).Begin(ctx)
	defer tx.Rollback(ctx)

	if _, err := repo.GetByID(ctx, tx, "missing"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("get: expected ErrAccountNotFound, got %v", err)
	}
	if err := repo.Update(ctx, tx, newAccount("missing", 0)); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("update: expected ErrAccountNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, tx, "missing"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("delete: expected ErrAccountNotFound, got %v", err)
	}

	_ = repo.Create(ctx, tx, newAccount("a1", 0))
	if err := repo.Create(ctx, tx, newAccount("a1", 0)); !errors.Is(err, domain.ErrDuplicateID) {
		t.Errorf("expected domain.ErrDuplicateID, got %v", err)
	}
}

func TestTransactionRepositoryListByAccount(t *testing.T) {
	store := NewStore()
	repo := NewTransactionRepository(store)
	ctx := context.Background()

	tx, _ := NewTxManager(store).Begin(ctx)
	defer tx.Rollback(ctx)

	txns := []*domain.Transaction{
		{ID: "t1", AccountID: "a1", Type: domain.TransactionTypeExpense, Amount: decimal.NewFromInt(1)},
		{ID: "t2", AccountID: "a2", Type: domain.TransactionTypeTransfer, TransferToAccountID: "a1", Amount: decimal.NewFromInt(2)},
		{ID: "t3", AccountID: "a2", Type: domain.TransactionTypeIncome, Amount: decimal.NewFromInt(3)},
	}
	for _, txn := range txns {
		if err := repo.Create(ctx, tx, txn); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	list, err := repo.ListByAccount(ctx, tx, "a1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(list) != 2 || list[0].ID != "t1" || list[1].ID != "t2" {
		t.Fatalf("expected t1 and t2, got %+v", list)
	}

	if err := repo.Delete(ctx, tx, "t2"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, tx, "t2"); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestBudgetRepositoryListByPeriod(t *testing.T) {
	store := NewStore()
	repo := NewBudgetRepository(store)
	ctx := context.Background()

	tx, _ := NewTxManager(store).Begin(ctx)
	defer tx.Rollback(ctx)

	_ = repo.Create(ctx, tx, &domain.Budget{ID: "b1", Year: 2024, Month: 5})
	_ = repo.Create(ctx, tx, &domain.Budget{ID: "b2", Year: 2024, Month: 6})
	_ = repo.Create(ctx, tx, &domain.Budget{ID: "b3", Year: 2025, Month: 5})

	tests := []struct {
		name        string
		year, month int
		want        []string
	}{
		{"exact period", 2024, 5, []string{"b1"}},
		{"whole year", 2024, 0, []string{"b1", "b2"}},
		{"every year", 0, 5, []string{"b1", "b3"}},
		{"everything", 0, 0, []string{"b1", "b2", "b3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := repo.ListByPeriod(ctx, tx, tt.year, tt.month)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(list) != len(tt.want) {
				t.Fatalf("expected %v, got %d budgets", tt.want, len(list))
			}
			for i, id := range tt.want {
				if list[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, list[i].ID)
				}
			}
		})
	}
}

func TestSettingsRepository(t *testing.T) {
	store := NewStore()
	repo := NewSettingsRepository(store)
	ctx := context.Background()

	tx, _ := NewTxManager(store).Begin(ctx)
	defer tx.Rollback(ctx)

	if _, err := repo.Get(ctx, tx); !errors.Is(err, domain.ErrSettingsNotFound) {
		t.Fatalf("expected ErrSettingsNotFound, got %v", err)
	}

	if err := repo.Save(ctx, tx, &domain.UserSettings{ID: "s1", Theme: domain.ThemeDark}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := repo.Get(ctx, tx)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Theme != domain.ThemeDark {
		t.Fatalf("expected dark theme, got %s", got.Theme)
	}
}

func TestCategoryRepositoryUpdate(t *testing.T) {
	store := NewStore()
	repo := NewCategoryRepository(store)
	ctx := context.Background()

	tx, _ := NewTxManager(store).Begin(ctx)
	defer tx.Rollback(ctx)

	_ = repo.Create(ctx, tx, &domain.Category{ID: "c1", Name: "Courses", Type: domain.CategoryTypeExpense})

	if err := repo.Update(ctx, tx, &domain.Category{ID: "c1", Name: "Alimentation", Type: domain.CategoryTypeExpense}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, tx, "c1")
	if got.Name != "Alimentation" {
		t.Fatalf("expected renamed category, got %q", got.Name)
	}

	if err := repo.Delete(ctx, tx, "c1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, tx, "c1"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}
