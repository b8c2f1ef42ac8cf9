package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

func TestTransactionUseCase_BalanceScenario(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	x := l.account(t, "X", 100)
	y := l.account(t, "Y", 0)

	expense := l.record(t, usecase.CreateTransactionInput{
		AccountID: x.ID,
		Type:      domain.TransactionTypeExpense,
		Amount:    amount(30),
	})
	l.requireBalance(t, x.ID, 70)

	transfer := l.record(t, usecase.CreateTransactionInput{
		AccountID:           x.ID,
		Type:                domain.TransactionTypeTransfer,
		Amount:              amount(20),
		TransferToAccountID: y.ID,
	})
	l.requireBalance(t, x.ID, 50)
	l.requireBalance(t, y.ID, 20)

	require.NoError(t, l.transactions.DeleteTransaction(ctx, expense.ID))
	l.requireBalance(t, x.ID, 80)

	_, err := l.transactions.UpdateTransaction(ctx, transfer.ID, usecase.UpdateTransactionInput{
		Amount: ptr(amount(25)),
	})
	require.NoError(t, err)
	l.requireBalance(t, x.ID, 55)
	l.requireBalance(t, y.ID, 25)

	report, err := l.reconciliation.GenerateReconciliationReport(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Discrepancies)
	assert.True(t, report.LedgerConsistent)

	assert.Equal(t, []string{
		domain.EventTypeAccountCreated,
		domain.EventTypeAccountCreated,
		domain.EventTypeTransactionCreated,
		domain.EventTypeTransactionCreated,
		domain.EventTypeTransactionDeleted,
		domain.EventTypeTransactionUpdated,
	}, l.events.Types())
}

func TestTransactionUseCase_Income(t *testing.T) {
	l := newLedger(t)
	salary := l.category(t, "Salaire", domain.CategoryTypeIncome)
	x := l.account(t, "X", 10)

	txn := l.record(t, usecase.CreateTransactionInput{
		AccountID:  x.ID,
		CategoryID: salary.ID,
		Type:       domain.TransactionTypeIncome,
		Amount:     amount(2500),
	})

	l.requireBalance(t, x.ID, 2510)
	assert.Equal(t, time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC), txn.Date, "date defaults to today")
	assert.Equal(t, usecase.DefaultOwnerID, txn.UserID)
	assert.Equal(t, testNow, txn.CreatedAt)
}

func TestTransactionUseCase_CreateRejected(t *testing.T) {
	l := newLedger(t)
	x := l.account(t, "X", 100)
	groceries := l.category(t, "Courses", domain.CategoryTypeExpense)

	usd, err := l.accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{
		Name:     "Dollars",
		Type:     domain.AccountTypeBank,
		Currency: "USD",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   usecase.CreateTransactionInput
		wantErr error
	}{
		{
			name:    "missing source account",
			input:   usecase.CreateTransactionInput{AccountID: "nope", Type: domain.TransactionTypeExpense, Amount: amount(1)},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:    "missing transfer destination",
			input:   usecase.CreateTransactionInput{AccountID: x.ID, Type: domain.TransactionTypeTransfer, Amount: amount(1), TransferToAccountID: "nope"},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:    "transfer without destination",
			input:   usecase.CreateTransactionInput{AccountID: x.ID, Type: domain.TransactionTypeTransfer, Amount: amount(1)},
			wantErr: domain.ErrTransferDestinationRequired,
		},
		{
			name:    "transfer to same account",
			input:   usecase.CreateTransactionInput{AccountID: x.ID, Type: domain.TransactionTypeTransfer, Amount: amount(1), TransferToAccountID: x.ID},
			wantErr: domain.ErrSameAccount,
		},
		{
			name:    "transfer across currencies",
			input:   usecase.CreateTransactionInput{AccountID: x.ID, Type: domain.TransactionTypeTransfer, Amount: amount(1), TransferToAccountID: usd.ID},
			wantErr: domain.ErrCurrencyMismatch,
		},
		{
			name:    "negative amount",
			input:   usecase.CreateTransactionInput{AccountID: x.ID, Type: domain.TransactionTypeExpense, Amount: amount(-5)},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "unknown type",
			input:   usecase.CreateTransactionInput{AccountID: x.ID, Type: "refund", Amount: amount(5)},
			wantErr: domain.ErrInvalidTransactionType,
		},
		{
			name:    "expense category on income",
			input:   usecase.CreateTransactionInput{AccountID: x.ID, CategoryID: groceries.ID, Type: domain.TransactionTypeIncome, Amount: amount(5)},
			wantErr: domain.ErrCategoryTypeMismatch,
		},
		{
			name:    "unknown category",
			input:   usecase.CreateTransactionInput{AccountID: x.ID, CategoryID: "nope", Type: domain.TransactionTypeExpense, Amount: amount(5)},
			wantErr: domain.ErrCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.transactions.CreateTransaction(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)

			l.requireBalance(t, x.ID, 100)
			l.requireBalance(t, usd.ID, 0)
		})
	}

	views, err := l.transactions.ListTransactions(context.Background(), usecase.ListTransactionsInput{})
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestTransactionUseCase_UnknownIDs(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	x := l.account(t, "X", 100)

	_, err := l.transactions.UpdateTransaction(ctx, "missing", usecase.UpdateTransactionInput{Amount: ptr(amount(1))})
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)

	err = l.transactions.DeleteTransaction(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)

	_, err = l.transactions.GetTransaction(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)

	l.requireBalance(t, x.ID, 100)
}

func TestTransactionUseCase_RejectedUpdateRollsBack(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	x := l.account(t, "X", 100)
	y := l.account(t, "Y", 0)

	txn := l.record(t, usecase.CreateTransactionInput{
		AccountID: x.ID,
		Type:      domain.TransactionTypeExpense,
		Amount:    amount(40),
	})

	tests := []struct {
		name    string
		input   usecase.UpdateTransactionInput
		wantErr error
	}{
		{"negative amount", usecase.UpdateTransactionInput{Amount: ptr(amount(-1))}, domain.ErrInvalidAmount},
		{"move to missing account", usecase.UpdateTransactionInput{AccountID: ptr("nope")}, domain.ErrAccountNotFound},
		{"turn into transfer without destination", usecase.UpdateTransactionInput{Type: ptr(domain.TransactionTypeTransfer)}, domain.ErrTransferDestinationRequired},
		{"turn into transfer to missing account", usecase.UpdateTransactionInput{Type: ptr(domain.TransactionTypeTransfer), TransferToAccountID: ptr("nope")}, domain.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.transactions.UpdateTransaction(ctx, txn.ID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)

			l.requireBalance(t, x.ID, 60)
			l.requireBalance(t, y.ID, 0)

			stored, err := l.transactions.GetTransaction(ctx, txn.ID)
			require.NoError(t, err)
			assert.True(t, stored.Amount.Equal(amount(40)))
			assert.Equal(t, domain.TransactionTypeExpense, stored.Type)
		})
	}
}

func TestTransactionUseCase_UpdateChangesShape(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	x := l.account(t, "X", 100)
	y := l.account(t, "Y", 0)

	txn := l.record(t, usecase.CreateTransactionInput{
		AccountID:           x.ID,
		Type:                domain.TransactionTypeTransfer,
		Amount:              amount(30),
		TransferToAccountID: y.ID,
	})

	updated, err := l.transactions.UpdateTransaction(ctx, txn.ID, usecase.UpdateTransactionInput{
		Type: ptr(domain.TransactionTypeIncome),
	})
	require.NoError(t, err)

	assert.Empty(t, updated.TransferToAccountID, "destination is dropped for non-transfers")
	l.requireBalance(t, x.ID, 130)
	l.requireBalance(t, y.ID, 0)

	updated, err = l.transactions.UpdateTransaction(ctx, txn.ID, usecase.UpdateTransactionInput{
		AccountID: ptr(y.ID),
		Type:      ptr(domain.TransactionTypeExpense),
		Amount:    ptr(amount(10)),
	})
	require.NoError(t, err)

	l.requireBalance(t, x.ID, 100)
	l.requireBalance(t, y.ID, -10)
	assert.Equal(t, y.ID, updated.AccountID)
	assert.Equal(t, testNow, updated.UpdatedAt)
}

func TestTransactionUseCase_UpdateExpenseToIncome(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	x := l.account(t, "X", 100)

	txn := l.record(t, usecase.CreateTransactionInput{
		AccountID: x.ID,
		Type:      domain.TransactionTypeExpense,
		Amount:    amount(10),
	})
	before := l.balance(t, x.ID)

	_, err := l.transactions.UpdateTransaction(ctx, txn.ID, usecase.UpdateTransactionInput{
		Type:   ptr(domain.TransactionTypeIncome),
		Amount: ptr(amount(15)),
	})
	require.NoError(t, err)

	after := l.balance(t, x.ID)
	assert.True(t, after.Sub(before).Equal(amount(25)), "expected +25, got %s", after.Sub(before))
	l.requireBalance(t, x.ID, 115)
}

func TestTransactionUseCase_TransferDropsCategory(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	x := l.account(t, "X", 100)
	y := l.account(t, "Y", 0)
	food := l.category(t, "Courses", domain.CategoryTypeExpense)

	created := l.record(t, usecase.CreateTransactionInput{
		AccountID:           x.ID,
		CategoryID:          "does-not-exist",
		Type:                domain.TransactionTypeTransfer,
		Amount:              amount(20),
		TransferToAccountID: y.ID,
	})
	assert.Empty(t, created.CategoryID)

	stored, err := l.transactions.GetTransaction(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.CategoryID)
	assert.Nil(t, stored.Category)

	expense := l.record(t, usecase.CreateTransactionInput{
		AccountID:  x.ID,
		CategoryID: food.ID,
		Type:       domain.TransactionTypeExpense,
		Amount:     amount(5),
	})

	_, err = l.transactions.UpdateTransaction(ctx, expense.ID, usecase.UpdateTransactionInput{
		Type:                ptr(domain.TransactionTypeTransfer),
		TransferToAccountID: ptr(y.ID),
	})
	require.NoError(t, err)

	view, err := l.transactions.GetTransaction(ctx, expense.ID)
	require.NoError(t, err)
	assert.Empty(t, view.CategoryID)
	assert.Nil(t, view.Category)
	l.requireBalance(t, x.ID, 75)
	l.requireBalance(t, y.ID, 25)
}

func TestTransactionUseCase_ListAndViews(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	x := l.account(t, "X", 100)
	y := l.account(t, "Y", 0)
	food := l.category(t, "Restaurants", domain.CategoryTypeExpense)

	l.record(t, usecase.CreateTransactionInput{AccountID: x.ID, CategoryID: food.ID, Type: domain.TransactionTypeExpense, Amount: amount(12)})
	l.record(t, usecase.CreateTransactionInput{AccountID: y.ID, Type: domain.TransactionTypeIncome, Amount: amount(5), Date: testNow.AddDate(0, -1, 0)})
	l.record(t, usecase.CreateTransactionInput{AccountID: y.ID, Type: domain.TransactionTypeTransfer, Amount: amount(1), TransferToAccountID: x.ID})

	all, err := l.transactions.ListTransactions(ctx, usecase.ListTransactionsInput{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, "X", all[0].Account.Name)
	assert.Equal(t, "Restaurants", all[0].Category.Name)
	assert.Nil(t, all[1].Category)
	assert.Equal(t, "X", all[2].TransferToAccount.Name)

	byAccount, err := l.transactions.ListTransactions(ctx, usecase.ListTransactionsInput{AccountID: x.ID})
	require.NoError(t, err)
	assert.Len(t, byAccount, 2)

	thisMonth, err := l.transactions.ListTransactions(ctx, usecase.ListTransactionsInput{From: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Len(t, thisMonth, 2)

	incomes, err := l.transactions.ListTransactions(ctx, usecase.ListTransactionsInput{Type: domain.TransactionTypeIncome})
	require.NoError(t, err)
	assert.Len(t, incomes, 1)
}

func TestTransactionUseCase_PublishFailureDoesNotFail(t *testing.T) {
	l := newLedger(t)
	l.events.Err = errors.New("broker down")
	x := l.account(t, "X", 100)

	l.record(t, usecase.CreateTransactionInput{AccountID: x.ID, Type: domain.TransactionTypeExpense, Amount: amount(1)})
	l.requireBalance(t, x.ID, 99)

	events := l.events.Events()
	require.NotEmpty(t, events)

	last := events[len(events)-1]
	balances, ok := last.Payload[domain.PayloadKeyBalances].([]domain.BalanceChange)
	require.True(t, ok)
	assert.Equal(t, []domain.BalanceChange{{AccountID: x.ID, Currency: "EUR", Balance: "99"}}, balances)
}

func TestTransactionUseCase_ConcurrentWrites(t *testing.T) {
	l := newLedger(t)
	x := l.account(t, "X", 0)
	y := l.account(t, "Y", 0)

	const workers = 40
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func(i int) {
			input := usecase.CreateTransactionInput{AccountID: x.ID, Type: domain.TransactionTypeIncome, Amount: amount(2)}
			if i%2 == 1 {
				input = usecase.CreateTransactionInput{AccountID: x.ID, Type: domain.TransactionTypeTransfer, Amount: amount(1), TransferToAccountID: y.ID}
			}
			_, err := l.transactions.CreateTransaction(context.Background(), input)
			errs <- err
		}(i)
	}

	for i := 0; i < workers; i++ {
		require.NoError(t, <-errs)
	}

	l.requireBalance(t, x.ID, workers/2*2-workers/2)
	l.requireBalance(t, y.ID, workers/2)

	ok, err := l.ledgerUC.CheckConsistency(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}
