// Package memory implements the usecase repositories on top of an in-process store.
//
// All access goes through a Tx obtained from TxManager: Begin takes the store's
// exclusive lock and BeginReadOnly takes the shared lock, so a whole use case
// (for example reverse, merge and re-apply of a transaction) runs without
// interleaving. Writes register undo steps that Rollback replays.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

var (
	// ErrTxDone is returned when a finished transaction is used again.
	ErrTxDone = errors.New("transaction already committed or rolled back")
	// ErrReadOnlyTx is returned when a read-only transaction attempts a write.
	ErrReadOnlyTx = errors.New("write in read-only transaction")
	// ErrForeignTx is returned when a transaction from another store is passed in.
	ErrForeignTx = errors.New("transaction does not belong to the memory store")
)

// Store owns every ledger collection.
type Store struct {
	mu sync.RWMutex

	accounts     *table[domain.Account]
	categories   *table[domain.Category]
	transactions *table[domain.Transaction]
	budgets      *table[domain.Budget]
	settings     *domain.UserSettings
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     newTable[domain.Account](),
		categories:   newTable[domain.Category](),
		transactions: newTable[domain.Transaction](),
		budgets:      newTable[domain.Budget](),
	}
}

// Export returns a copy of the full store state.
func (s *Store) Export(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := &domain.Snapshot{
		Accounts:     s.accounts.all(),
		Categories:   s.categories.all(),
		Transactions: s.transactions.all(),
		Budgets:      s.budgets.all(),
	}

	if s.settings != nil {
		settings := *s.settings
		snapshot.Settings = &settings
	}

	return snapshot, nil
}

// Import replaces the full store state with the snapshot contents.
func (s *Store) Import(ctx context.Context, snapshot *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	accounts := newTable[domain.Account]()
	for _, a := range snapshot.Accounts {
		accounts.insert(a.ID, a)
	}

	categories := newTable[domain.Category]()
	for _, c := range snapshot.Categories {
		categories.insert(c.ID, c)
	}

	transactions := newTable[domain.Transaction]()
	for _, t := range snapshot.Transactions {
		transactions.insert(t.ID, t)
	}

	budgets := newTable[domain.Budget]()
	for _, b := range snapshot.Budgets {
		budgets.insert(b.ID, b)
	}

	var settings *domain.UserSettings
	if snapshot.Settings != nil {
		cp := *snapshot.Settings
		settings = &cp
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = accounts
	s.categories = categories
	s.transactions = transactions
	s.budgets = budgets
	s.settings = settings

	return nil
}

var _ usecase.StateStore = (*Store)(nil)

// table keeps rows by id together with their insertion order.
type table[T any] struct {
	rows  map[string]*T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]*T)}
}

// get returns a copy of the row.
func (t *table[T]) get(id string) (*T, bool) {
	row, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	cp := *row
	return &cp, true
}

func (t *table[T]) has(id string) bool {
	_, ok := t.rows[id]
	return ok
}

// insert stores a copy of row at the end of the table.
func (t *table[T]) insert(id string, row *T) {
	cp := *row
	t.rows[id] = &cp
	t.order = append(t.order, id)
}

// insertAt stores a copy of row at the given position.
func (t *table[T]) insertAt(id string, row *T, index int) {
	cp := *row
	t.rows[id] = &cp

	if index < 0 || index > len(t.order) {
		index = len(t.order)
	}
	t.order = append(t.order, "")
	copy(t.order[index+1:], t.order[index:])
	t.order[index] = id
}

// replace swaps the stored row and returns the previous value.
func (t *table[T]) replace(id string, row *T) *T {
	old := t.rows[id]
	cp := *row
	t.rows[id] = &cp
	return old
}

// remove deletes the row and returns it with its former position.
func (t *table[T]) remove(id string) (*T, int, bool) {
	row, ok := t.rows[id]
	if !ok {
		return nil, -1, false
	}

	delete(t.rows, id)

	index := -1
	for i, v := range t.order {
		if v == id {
			index = i
			break
		}
	}
	if index >= 0 {
		t.order = append(t.order[:index], t.order[index+1:]...)
	}

	return row, index, true
}

// all returns copies of every row in insertion order.
func (t *table[T]) all() []*T {
	return t.filter(func(*T) bool { return true })
}

func (t *table[T]) filter(keep func(*T) bool) []*T {
	result := make([]*T, 0, len(t.order))
	for _, id := range t.order {
		row := t.rows[id]
		if !keep(row) {
			continue
		}
		cp := *row
		result = append(result, &cp)
	}
	return result
}
