package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	env          Env
	accountRepo  AccountRepository
	txnRepo      TransactionRepository
	settingsRepo SettingsRepository
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	env Env,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	settingsRepo SettingsRepository,
) *AccountUseCase {
	return &AccountUseCase{
		env:          env,
		accountRepo:  accountRepo,
		txnRepo:      txnRepo,
		settingsRepo: settingsRepo,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	UserID         string
	Name           string
	Type           domain.AccountType
	InitialBalance decimal.Decimal
	Currency       string
	Institution    string
	LastFour       string
	// IsActive defaults to true.
	IsActive *bool
}

// CreateAccount creates a new account whose balance starts at InitialBalance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	now := uc.env.now()

	currency := domain.NormalizeCurrency(input.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	account := &domain.Account{
		ID:             uc.env.IDGen.Generate(),
		UserID:         uc.env.owner(input.UserID),
		Name:           input.Name,
		Type:           input.Type,
		Balance:        input.InitialBalance,
		InitialBalance: input.InitialBalance,
		Currency:       currency,
		Institution:    input.Institution,
		LastFour:       input.LastFour,
		IsActive:       active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	err := uc.env.inTx(ctx, func(tx Transaction) error {
		return uc.accountRepo.Create(ctx, tx, account)
	})
	if err != nil {
		return nil, err
	}

	uc.env.emit(ctx, domain.EventTypeAccountCreated, domain.AggregateTypeAccount, account.ID, map[string]any{
		"name":                   account.Name,
		"type":                   string(account.Type),
		domain.PayloadKeyBalances: []domain.BalanceChange{balanceChangeOf(account)},
	})

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	var account *domain.Account

	err := uc.env.inReadTx(ctx, func(tx Transaction) error {
		var err error
		account, err = uc.accountRepo.GetByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// ListAccounts lists accounts in creation order.
func (uc *AccountUseCase) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	var accounts []*domain.Account

	err := uc.env.inReadTx(ctx, func(tx Transaction) error {
		var err error
		accounts, err = uc.accountRepo.List(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// UpdateAccountInput holds the fields to change; nil fields are left as is.
// Balance is not settable: it only moves through transactions or InitialBalance.
type UpdateAccountInput struct {
	Name           *string
	Type           *domain.AccountType
	InitialBalance *decimal.Decimal
	Currency       *string
	Institution    *string
	LastFour       *string
	IsActive       *bool
}

// UpdateAccount merges the non-nil fields into the stored account.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, id string, input UpdateAccountInput) (*domain.Account, error) {
	var account *domain.Account

	err := uc.env.inTx(ctx, func(tx Transaction) error {
		current, err := uc.accountRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		updated := *current
		if input.Name != nil {
			updated.Name = *input.Name
		}
		if input.Type != nil {
			updated.Type = *input.Type
		}
		if input.Currency != nil {
			updated.Currency = domain.NormalizeCurrency(*input.Currency)
		}
		if input.Institution != nil {
			updated.Institution = *input.Institution
		}
		if input.LastFour != nil {
			updated.LastFour = *input.LastFour
		}
		if input.IsActive != nil {
			updated.IsActive = *input.IsActive
		}
		if input.InitialBalance != nil {
			delta := input.InitialBalance.Sub(current.InitialBalance)
			updated.InitialBalance = *input.InitialBalance
			updated.Balance = updated.ApplyEffect(delta)
		}

		if err := updated.Validate(); err != nil {
			return err
		}

		if updated.Currency != current.Currency {
			if err := uc.checkTransferCurrencies(ctx, tx, &updated); err != nil {
				return err
			}
		}

		updated.UpdatedAt = uc.env.now()

		if err := uc.accountRepo.Update(ctx, tx, &updated); err != nil {
			return err
		}

		account = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.env.emit(ctx, domain.EventTypeAccountUpdated, domain.AggregateTypeAccount, account.ID, map[string]any{
		"name":                   account.Name,
		domain.PayloadKeyBalances: []domain.BalanceChange{balanceChangeOf(account)},
	})

	return account, nil
}

// checkTransferCurrencies rejects a currency change that would leave a transfer
// between accounts of different currencies.
func (uc *AccountUseCase) checkTransferCurrencies(ctx context.Context, tx Transaction, account *domain.Account) error {
	txns, err := uc.txnRepo.ListByAccount(ctx, tx, account.ID)
	if err != nil {
		return err
	}

	for _, txn := range txns {
		if txn.Type != domain.TransactionTypeTransfer {
			continue
		}

		counterpartID := txn.TransferToAccountID
		if counterpartID == account.ID {
			counterpartID = txn.AccountID
		}

		counterpart, err := uc.accountRepo.GetByID(ctx, tx, counterpartID)
		if err != nil {
			return err
		}

		if counterpart.Currency != account.Currency {
			return fmt.Errorf("%w: transfer %s links %s and %s", domain.ErrCurrencyMismatch, txn.ID, account.Currency, counterpart.Currency)
		}
	}

	return nil
}

// DeleteAccount removes an account that no transaction references.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, id string) error {
	err := uc.env.inTx(ctx, func(tx Transaction) error {
		if _, err := uc.accountRepo.GetByID(ctx, tx, id); err != nil {
			return err
		}

		txns, err := uc.txnRepo.ListByAccount(ctx, tx, id)
		if err != nil {
			return err
		}
		if len(txns) > 0 {
			return fmt.Errorf("%w: %d transactions", domain.ErrAccountInUse, len(txns))
		}

		if err := uc.accountRepo.Delete(ctx, tx, id); err != nil {
			return err
		}

		return uc.clearDefaultAccount(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	uc.env.emit(ctx, domain.EventTypeAccountDeleted, domain.AggregateTypeAccount, id, nil)

	return nil
}

func (uc *AccountUseCase) clearDefaultAccount(ctx context.Context, tx Transaction, id string) error {
	settings, err := uc.settingsRepo.Get(ctx, tx)
	if errors.Is(err, domain.ErrSettingsNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if settings.DefaultAccountID != id {
		return nil
	}

	settings.DefaultAccountID = ""
	settings.UpdatedAt = uc.env.now()

	return uc.settingsRepo.Save(ctx, tx, settings)
}

func balanceChangeOf(account *domain.Account) domain.BalanceChange {
	return domain.BalanceChange{
		AccountID: account.ID,
		Currency:  account.Currency,
		Balance:   account.Balance.String(),
	}
}
