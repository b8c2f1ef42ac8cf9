package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
)

var (
	// ErrInconsistentLedger is returned when balances disagree with the recorded cash flow.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: balances do not match net cash flow")
)

// LedgerTotals are the ledger-wide sums compared by CheckConsistency.
type LedgerTotals struct {
	TotalBalance   decimal.Decimal
	InitialBalance decimal.Decimal
	TotalIncome    decimal.Decimal
	TotalExpenses  decimal.Decimal
}

// Drift is how far balances have moved beyond what income and expenses explain.
// Transfers only move money between accounts, so it is zero on a healthy ledger.
func (t LedgerTotals) Drift() decimal.Decimal {
	return t.TotalBalance.Sub(t.InitialBalance).Sub(t.TotalIncome.Sub(t.TotalExpenses))
}

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	env         Env
	accountRepo AccountRepository
	txnRepo     TransactionRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(env Env, accountRepo AccountRepository, txnRepo TransactionRepository) *LedgerUseCase {
	return &LedgerUseCase{
		env:         env,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

// Totals sums balances and cash flow over the whole ledger.
func (uc *LedgerUseCase) Totals(ctx context.Context) (*LedgerTotals, error) {
	totals := &LedgerTotals{}

	err := uc.env.inReadTx(ctx, func(tx Transaction) error {
		accounts, err := uc.accountRepo.List(ctx, tx)
		if err != nil {
			return err
		}

		txns, err := uc.txnRepo.List(ctx, tx)
		if err != nil {
			return err
		}

		for _, a := range accounts {
			totals.TotalBalance = totals.TotalBalance.Add(a.Balance)
			totals.InitialBalance = totals.InitialBalance.Add(a.InitialBalance)
		}

		for _, t := range txns {
			switch t.Type {
			case domain.TransactionTypeIncome:
				totals.TotalIncome = totals.TotalIncome.Add(t.Amount)
			case domain.TransactionTypeExpense:
				totals.TotalExpenses = totals.TotalExpenses.Add(t.Amount)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return totals, nil
}

// CheckConsistency verifies that the ledger is balanced.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (bool, error) {
	totals, err := uc.Totals(ctx)
	if err != nil {
		return false, err
	}

	if !totals.Drift().IsZero() {
		return false, ErrInconsistentLedger
	}

	return true, nil
}
