package memory

import (
	"context"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// Create stores a new transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if r.store.transactions.has(txn.ID) {
		return domain.ErrDuplicateID
	}

	r.store.transactions.insert(txn.ID, txn)
	t.onRollback(func() { r.store.transactions.remove(txn.ID) })

	return nil
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txn, ok := r.store.transactions.get(id)
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	return txn, nil
}

// Update replaces the stored transaction.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if !r.store.transactions.has(txn.ID) {
		return domain.ErrTransactionNotFound
	}

	old := r.store.transactions.replace(txn.ID, txn)
	t.onRollback(func() { r.store.transactions.replace(old.ID, old) })

	return nil
}

// Delete removes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	t, err := r.store.writer(tx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	old, index, ok := r.store.transactions.remove(id)
	if !ok {
		return domain.ErrTransactionNotFound
	}

	t.onRollback(func() { r.store.transactions.insertAt(id, old, index) })

	return nil
}

// List returns all transactions in insertion order.
func (r *TransactionRepository) List(ctx context.Context, tx usecase.Transaction) ([]*domain.Transaction, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return r.store.transactions.all(), nil
}

// ListByAccount returns transactions that move money on the account,
// either as source or as transfer destination.
func (r *TransactionRepository) ListByAccount(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.Transaction, error) {
	if _, err := r.store.reader(tx); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return r.store.transactions.filter(func(t *domain.Transaction) bool {
		return t.References(accountID)
	}), nil
}

// ClearCategory detaches every transaction filed under categoryID.
func (r *TransactionRepository) ClearCategory(ctx context.Context, tx usecase.Transaction, categoryID string) (int, error) {
	t, err := r.store.writer(tx)
	if err != nil {
		return 0, err
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	affected := r.store.transactions.filter(func(t *domain.Transaction) bool {
		return t.CategoryID == categoryID
	})

	for _, txn := range affected {
		txn.CategoryID = ""
		old := r.store.transactions.replace(txn.ID, txn)
		t.onRollback(func() { r.store.transactions.replace(old.ID, old) })
	}

	return len(affected), nil
}

var _ usecase.TransactionRepository = (*TransactionRepository)(nil)
