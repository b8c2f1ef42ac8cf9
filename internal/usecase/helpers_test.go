package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/ledgerdash/internal/adapter/repository/memory"
	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
	"github.com/iho/ledgerdash/internal/usecase/mocks"
)

var testNow = time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)

type ledger struct {
	store  *memory.Store
	clock  *mocks.MockClock
	events *mocks.EventRecorder
	env    usecase.Env

	accountRepo  *memory.AccountRepository
	categoryRepo *memory.CategoryRepository
	txnRepo      *memory.TransactionRepository
	budgetRepo   *memory.BudgetRepository
	settingsRepo *memory.SettingsRepository

	accounts       *usecase.AccountUseCase
	categories     *usecase.CategoryUseCase
	transactions   *usecase.TransactionUseCase
	dashboard      *usecase.DashboardUseCase
	budgets        *usecase.BudgetUseCase
	settings       *usecase.SettingsUseCase
	reconciliation *usecase.ReconciliationUseCase
	ledgerUC       *usecase.LedgerUseCase
}

func newLedger(t *testing.T) *ledger {
	t.Helper()

	store := memory.NewStore()
	l := &ledger{
		store:        store,
		clock:        mocks.NewMockClock(testNow),
		events:       mocks.NewEventRecorder(),
		accountRepo:  memory.NewAccountRepository(store),
		categoryRepo: memory.NewCategoryRepository(store),
		txnRepo:      memory.NewTransactionRepository(store),
		budgetRepo:   memory.NewBudgetRepository(store),
		settingsRepo: memory.NewSettingsRepository(store),
	}

	l.env = usecase.Env{
		TxManager: memory.NewTxManager(store),
		IDGen:     mocks.NewMockIDGenerator(),
		Clock:     l.clock,
		Publisher: l.events,
	}

	l.accounts = usecase.NewAccountUseCase(l.env, l.accountRepo, l.txnRepo, l.settingsRepo)
	l.categories = usecase.NewCategoryUseCase(l.env, l.categoryRepo, l.txnRepo, l.budgetRepo)
	l.transactions = usecase.NewTransactionUseCase(l.env, l.accountRepo, l.categoryRepo, l.txnRepo)
	l.dashboard = usecase.NewDashboardUseCase(l.env, l.accountRepo, l.categoryRepo, l.txnRepo, nil, 0)
	l.budgets = usecase.NewBudgetUseCase(l.env, l.budgetRepo, l.categoryRepo, l.txnRepo)
	l.settings = usecase.NewSettingsUseCase(l.env, l.settingsRepo, l.accountRepo)
	l.reconciliation = usecase.NewReconciliationUseCase(l.env, l.accountRepo, l.txnRepo)
	l.ledgerUC = usecase.NewLedgerUseCase(l.env, l.accountRepo, l.txnRepo)

	return l
}

func (l *ledger) account(t *testing.T, name string, initial int64) *domain.Account {
	t.Helper()

	account, err := l.accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{
		Name:           name,
		Type:           domain.AccountTypeBank,
		InitialBalance: decimal.NewFromInt(initial),
	})
	require.NoError(t, err)

	return account
}

func (l *ledger) category(t *testing.T, name string, categoryType domain.CategoryType) *domain.Category {
	t.Helper()

	category, err := l.categories.CreateCategory(context.Background(), usecase.CreateCategoryInput{
		Name: name,
		Type: categoryType,
	})
	require.NoError(t, err)

	return category
}

func (l *ledger) record(t *testing.T, input usecase.CreateTransactionInput) *domain.Transaction {
	t.Helper()

	txn, err := l.transactions.CreateTransaction(context.Background(), input)
	require.NoError(t, err)

	return txn
}

func (l *ledger) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()

	account, err := l.accounts.GetAccount(context.Background(), id)
	require.NoError(t, err)

	return account.Balance
}

func (l *ledger) requireBalance(t *testing.T, id string, want int64) {
	t.Helper()

	got := l.balance(t, id)
	require.Truef(t, got.Equal(decimal.NewFromInt(want)), "account %s: expected balance %d, got %s", id, want, got)
}

func amount(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func ptr[T any](v T) *T { return &v }
