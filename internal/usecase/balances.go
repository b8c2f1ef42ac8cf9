package usecase

import (
	"context"
	"time"

	"github.com/iho/ledgerdash/internal/domain"
)

// balanceWriter applies balance effects to accounts within one store transaction
// and remembers the resulting balances for event payloads.
type balanceWriter struct {
	accounts AccountRepository
	tx       Transaction
	now      time.Time

	order  []string
	latest map[string]*domain.Account
}

func newBalanceWriter(accounts AccountRepository, tx Transaction, now time.Time) *balanceWriter {
	return &balanceWriter{
		accounts: accounts,
		tx:       tx,
		now:      now,
		latest:   make(map[string]*domain.Account),
	}
}

func (w *balanceWriter) apply(ctx context.Context, effects []domain.BalanceEffect) error {
	for _, effect := range effects {
		account, err := w.accounts.GetByID(ctx, w.tx, effect.AccountID)
		if err != nil {
			return err
		}

		balance := account.ApplyEffect(effect.Delta)
		if err := w.accounts.UpdateBalance(ctx, w.tx, account.ID, balance, w.now); err != nil {
			return err
		}

		account.Balance = balance
		account.UpdatedAt = w.now

		if _, seen := w.latest[account.ID]; !seen {
			w.order = append(w.order, account.ID)
		}
		w.latest[account.ID] = account
	}

	return nil
}

func (w *balanceWriter) changes() []domain.BalanceChange {
	changes := make([]domain.BalanceChange, 0, len(w.order))
	for _, id := range w.order {
		account := w.latest[id]
		changes = append(changes, domain.BalanceChange{
			AccountID: account.ID,
			Currency:  account.Currency,
			Balance:   account.Balance.String(),
		})
	}
	return changes
}
