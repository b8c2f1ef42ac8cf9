package memory

import (
	"context"

	"github.com/iho/ledgerdash/internal/usecase"
)

// TxManager implements usecase.TransactionManager for the memory store.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new transaction manager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin takes the store's exclusive lock and returns a writable transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.store.mu.Lock()

	return &Tx{store: m.store}, nil
}

// BeginReadOnly takes the store's shared lock.
func (m *TxManager) BeginReadOnly(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.store.mu.RLock()

	return &Tx{store: m.store, readOnly: true}, nil
}

// Tx is a unit of work holding one of the store's locks until it finishes.
type Tx struct {
	store    *Store
	readOnly bool
	done     bool
	undo     []func()
}

// Commit keeps the changes and releases the lock.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}

	t.done = true
	t.undo = nil
	t.unlock()

	return nil
}

// Rollback reverts every change made through the transaction and releases the lock.
// Calling it on a finished transaction is a no-op so it can be deferred.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}

	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}

	t.done = true
	t.undo = nil
	t.unlock()

	return nil
}

func (t *Tx) unlock() {
	if t.readOnly {
		t.store.mu.RUnlock()
		return
	}
	t.store.mu.Unlock()
}

func (t *Tx) onRollback(fn func()) {
	t.undo = append(t.undo, fn)
}

// reader resolves a usecase transaction into a live memory transaction.
func (s *Store) reader(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t.store != s {
		return nil, ErrForeignTx
	}
	if t.done {
		return nil, ErrTxDone
	}
	return t, nil
}

// writer is like reader but also rejects read-only transactions.
func (s *Store) writer(tx usecase.Transaction) (*Tx, error) {
	t, err := s.reader(tx)
	if err != nil {
		return nil, err
	}
	if t.readOnly {
		return nil, ErrReadOnlyTx
	}
	return t, nil
}

var _ usecase.TransactionManager = (*TxManager)(nil)
