package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	Update(ctx context.Context, tx Transaction, account *domain.Account) error
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, tx Transaction) ([]*domain.Account, error)
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	Create(ctx context.Context, tx Transaction, category *domain.Category) error
	GetByID(ctx context.Context, tx Transaction, id string) (*domain.Category, error)
	Update(ctx context.Context, tx Transaction, category *domain.Category) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, tx Transaction) ([]*domain.Category, error)
}

// TransactionRepository defines data access for ledger transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	Update(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, tx Transaction) ([]*domain.Transaction, error)
	ListByAccount(ctx context.Context, tx Transaction, accountID string) ([]*domain.Transaction, error)
	// ClearCategory detaches every transaction filed under categoryID and
	// returns how many were changed.
	ClearCategory(ctx context.Context, tx Transaction, categoryID string) (int, error)
}

// BudgetRepository defines data access for budgets.
type BudgetRepository interface {
	Create(ctx context.Context, tx Transaction, budget *domain.Budget) error
	GetByID(ctx context.Context, tx Transaction, id string) (*domain.Budget, error)
	Update(ctx context.Context, tx Transaction, budget *domain.Budget) error
	Delete(ctx context.Context, tx Transaction, id string) error
	ListByPeriod(ctx context.Context, tx Transaction, year, month int) ([]*domain.Budget, error)
}

// SettingsRepository defines data access for user settings.
type SettingsRepository interface {
	// Get returns domain.ErrSettingsNotFound until settings are first saved.
	Get(ctx context.Context, tx Transaction) (*domain.UserSettings, error)
	Save(ctx context.Context, tx Transaction, settings *domain.UserSettings) error
}

// Transaction represents an exclusive or shared unit of work on the store.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	// Begin starts an exclusive transaction for writes.
	Begin(ctx context.Context) (Transaction, error)
	// BeginReadOnly starts a shared transaction giving a consistent view for reads.
	BeginReadOnly(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// EventPublisher receives committed ledger events.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// StatsCache caches computed dashboard stats.
type StatsCache interface {
	// GetStats returns (nil, false, nil) on a miss.
	GetStats(ctx context.Context) (*domain.DashboardStats, bool, error)
	SetStats(ctx context.Context, stats *domain.DashboardStats, ttl time.Duration) error
	InvalidateStats(ctx context.Context) error
}

// StateStore exports and replaces the whole ledger state.
type StateStore interface {
	Export(ctx context.Context) (*domain.Snapshot, error)
	Import(ctx context.Context, snapshot *domain.Snapshot) error
}

// SnapshotRepository persists ledger snapshots outside the process.
type SnapshotRepository interface {
	// Load returns an empty snapshot when nothing was saved yet.
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snapshot *domain.Snapshot) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so the request can be retried.
	Release(ctx context.Context, key string) error
}
