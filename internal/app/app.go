// Package app assembles the ledger use cases on top of the in-memory store.
package app

import (
	"time"

	"github.com/iho/ledgerdash/internal/adapter/repository/memory"
	"github.com/iho/ledgerdash/internal/usecase"
)

// Ledger bundles every use case that shares one store.
type Ledger struct {
	Store *memory.Store

	Accounts       *usecase.AccountUseCase
	Categories     *usecase.CategoryUseCase
	Transactions   *usecase.TransactionUseCase
	Dashboard      *usecase.DashboardUseCase
	Budgets        *usecase.BudgetUseCase
	Settings       *usecase.SettingsUseCase
	Reconciliation *usecase.ReconciliationUseCase
	Ledger         *usecase.LedgerUseCase
}

// Options configures NewLedger.
type Options struct {
	IDGen     usecase.IDGenerator
	Clock     usecase.Clock
	Publisher usecase.EventPublisher
	OwnerID   string
	// StatsCache may be nil.
	StatsCache    usecase.StatsCache
	StatsCacheTTL time.Duration
}

// NewLedger wires the use cases to store.
func NewLedger(store *memory.Store, opts Options) *Ledger {
	env := usecase.Env{
		TxManager: memory.NewTxManager(store),
		IDGen:     opts.IDGen,
		Clock:     opts.Clock,
		Publisher: opts.Publisher,
		OwnerID:   opts.OwnerID,
	}

	accountRepo := memory.NewAccountRepository(store)
	categoryRepo := memory.NewCategoryRepository(store)
	txnRepo := memory.NewTransactionRepository(store)
	budgetRepo := memory.NewBudgetRepository(store)
	settingsRepo := memory.NewSettingsRepository(store)

	return &Ledger{
		Store:          store,
		Accounts:       usecase.NewAccountUseCase(env, accountRepo, txnRepo, settingsRepo),
		Categories:     usecase.NewCategoryUseCase(env, categoryRepo, txnRepo, budgetRepo),
		Transactions:   usecase.NewTransactionUseCase(env, accountRepo, categoryRepo, txnRepo),
		Dashboard:      usecase.NewDashboardUseCase(env, accountRepo, categoryRepo, txnRepo, opts.StatsCache, opts.StatsCacheTTL),
		Budgets:        usecase.NewBudgetUseCase(env, budgetRepo, categoryRepo, txnRepo),
		Settings:       usecase.NewSettingsUseCase(env, settingsRepo, accountRepo),
		Reconciliation: usecase.NewReconciliationUseCase(env, accountRepo, txnRepo),
		Ledger:         usecase.NewLedgerUseCase(env, accountRepo, txnRepo),
	}
}
