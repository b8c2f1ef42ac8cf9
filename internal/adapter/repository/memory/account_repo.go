package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if r.store.accounts.has(account.ID) {
		return domain.ErrDuplicateID
	}

	r.store.accounts.insert(account.ID, account)
	t.onRollback(func() { r.store.accounts.remove(account.ID) })

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	account, ok := r.store.accounts.get(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return account, nil
}

// Update replaces the stored account.
func (r *AccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if !r.store.accounts.has(account.ID) {
		return domain.ErrAccountNotFound
	}

	old := r.store.accounts.replace(account.ID, account)
	t.onRollback(func() { r.store.accounts.replace(old.ID, old) })

	return nil
}

// UpdateBalance updates the balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	account, ok := r.store.accounts.get(id)
	if !ok {
		return domain.ErrAccountNotFound
	}

	account.Balance = balance
	account.UpdatedAt = updatedAt

	old := r.store.accounts.replace(id, account)
	t.onRollback(func() { r.store.accounts.replace(id, old) })

	return nil
}

// Delete removes an account.
func (r *AccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	old, index, ok := r.store.accounts.remove(id)
	if !ok {
		return domain.ErrAccountNotFound
	}

	t.onRollback(func() { r.store.accounts.insertAt(id, old, index) })

	return nil
}

// List returns all accounts in creation order.
func (r *AccountRepository) List(ctx context.Context, tx usecase.Transaction) ([]*domain.Account, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return r.store.accounts.all(), nil
}

var _ usecase.AccountRepository = (*AccountRepository)(nil)
