package usecase

import (
	"context"

	"github.com/iho/ledgerdash/internal/domain"
)

// viewJoiner resolves transaction references against one consistent read.
type viewJoiner struct {
	accounts   map[string]*domain.Account
	categories map[string]*domain.Category
}

func newViewJoiner(ctx context.Context, tx Transaction, accountRepo AccountRepository, categoryRepo CategoryRepository) (*viewJoiner, error) {
	accounts, err := accountRepo.List(ctx, tx)
	if err != nil {
		return nil, err
	}

	categories, err := categoryRepo.List(ctx, tx)
	if err != nil {
		return nil, err
	}

	j := &viewJoiner{
		accounts:   make(map[string]*domain.Account, len(accounts)),
		categories: make(map[string]*domain.Category, len(categories)),
	}
	for _, a := range accounts {
		j.accounts[a.ID] = a
	}
	for _, c := range categories {
		j.categories[c.ID] = c
	}

	return j, nil
}

// view joins txn with whatever it references that still exists.
func (j *viewJoiner) view(txn *domain.Transaction) domain.TransactionView {
	v := domain.TransactionView{
		Transaction: *txn,
		Account:     j.accounts[txn.AccountID],
	}
	if txn.CategoryID != "" {
		v.Category = j.categories[txn.CategoryID]
	}
	if txn.TransferToAccountID != "" {
		v.TransferToAccount = j.accounts[txn.TransferToAccountID]
	}
	return v
}
