package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
)

// ReconciliationUseCase recomputes account balances from their transactions.
type ReconciliationUseCase struct {
	env         Env
	accountRepo AccountRepository
	txnRepo     TransactionRepository
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(env Env, accountRepo AccountRepository, txnRepo TransactionRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		env:         env,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID         string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	TransactionCount  int
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount compares the stored balance of an account with its initial
// balance plus the effects of every transaction touching it.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	var result *ReconciliationResult

	err := uc.env.inReadTx(ctx, func(tx Transaction) error {
		account, err := uc.accountRepo.GetByID(ctx, tx, accountID)
		if err != nil {
			return err
		}

		txns, err := uc.txnRepo.ListByAccount(ctx, tx, accountID)
		if err != nil {
			return err
		}

		result = reconcile(account, txns, uc.env.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ReconcileAllAccounts reconciles all accounts in the system
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	var results []*ReconciliationResult

	err := uc.env.inReadTx(ctx, func(tx Transaction) error {
		accounts, err := uc.accountRepo.List(ctx, tx)
		if err != nil {
			return err
		}

		txns, err := uc.txnRepo.List(ctx, tx)
		if err != nil {
			return err
		}

		byAccount := make(map[string][]*domain.Transaction, len(accounts))
		for _, t := range txns {
			byAccount[t.AccountID] = append(byAccount[t.AccountID], t)
			if t.TransferToAccountID != "" {
				byAccount[t.TransferToAccountID] = append(byAccount[t.TransferToAccountID], t)
			}
		}

		now := uc.env.now()
		results = make([]*ReconciliationResult, 0, len(accounts))
		for _, account := range accounts {
			results = append(results, reconcile(account, byAccount[account.ID], now))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

func reconcile(account *domain.Account, txns []*domain.Transaction, now time.Time) *ReconciliationResult {
	calculated := account.InitialBalance
	for _, t := range txns {
		for _, effect := range t.Effects(domain.Apply) {
			if effect.AccountID == account.ID {
				calculated = calculated.Add(effect.Delta)
			}
		}
	}

	return &ReconciliationResult{
		AccountID:         account.ID,
		RecordedBalance:   account.Balance,
		CalculatedBalance: calculated,
		Difference:        account.Balance.Sub(calculated),
		TransactionCount:  len(txns),
		IsReconciled:      account.Balance.Equal(calculated),
		LastChecked:       now,
	}
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	LedgerConsistent   bool
	CheckedAt          time.Time
}

// GenerateReconciliationReport reconciles every account and summarizes the result.
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalAccounts: len(results),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     uc.env.now(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}
	report.LedgerConsistent = len(report.Discrepancies) == 0

	return report, nil
}
