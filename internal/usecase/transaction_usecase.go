package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
)

// TransactionUseCase records income, expenses and transfers and keeps
// account balances in step with them.
type TransactionUseCase struct {
	env          Env
	accountRepo  AccountRepository
	categoryRepo CategoryRepository
	txnRepo      TransactionRepository
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	env Env,
	accountRepo AccountRepository,
	categoryRepo CategoryRepository,
	txnRepo TransactionRepository,
) *TransactionUseCase {
	return &TransactionUseCase{
		env:          env,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		txnRepo:      txnRepo,
	}
}

// CreateTransactionInput represents input for recording a transaction.
type CreateTransactionInput struct {
	UserID      string
	AccountID   string
	CategoryID  string
	Type        domain.TransactionType
	Amount      decimal.Decimal
	Description string
	Notes       string
	// Date defaults to today.
	Date                time.Time
	TransferToAccountID string
	IsRecurring         bool
}

// CreateTransaction stores the transaction and applies its balance effect atomically.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	now := uc.env.now()

	date := input.Date
	if date.IsZero() {
		date = startOfDay(now)
	}

	txn := &domain.Transaction{
		ID:                  uc.env.IDGen.Generate(),
		UserID:              uc.env.owner(input.UserID),
		AccountID:           input.AccountID,
		CategoryID:          input.CategoryID,
		Type:                input.Type,
		Amount:              input.Amount,
		Description:         input.Description,
		Notes:               input.Notes,
		Date:                date,
		TransferToAccountID: input.TransferToAccountID,
		IsRecurring:         input.IsRecurring,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	txn.Normalize()

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	var balances []domain.BalanceChange

	err := uc.env.inTx(ctx, func(tx Transaction) error {
		if err := uc.checkReferences(ctx, tx, txn); err != nil {
			return err
		}

		if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
			return err
		}

		writer := newBalanceWriter(uc.accountRepo, tx, now)
		if err := writer.apply(ctx, txn.Effects(domain.Apply)); err != nil {
			return err
		}

		balances = writer.changes()
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.env.emit(ctx, domain.EventTypeTransactionCreated, domain.AggregateTypeTransaction, txn.ID, transactionPayload(txn, balances))

	return txn, nil
}

// UpdateTransactionInput holds the fields to change; nil fields are left as is.
// An empty CategoryID or TransferToAccountID clears the field.
type UpdateTransactionInput struct {
	AccountID           *string
	CategoryID          *string
	Type                *domain.TransactionType
	Amount              *decimal.Decimal
	Description         *string
	Notes               *string
	Date                *time.Time
	TransferToAccountID *string
	IsRecurring         *bool
}

func (in UpdateTransactionInput) mergeInto(txn *domain.Transaction) {
	if in.AccountID != nil {
		txn.AccountID = *in.AccountID
	}
	if in.CategoryID != nil {
		txn.CategoryID = *in.CategoryID
	}
	if in.Type != nil {
		txn.Type = *in.Type
	}
	if in.Amount != nil {
		txn.Amount = *in.Amount
	}
	if in.Description != nil {
		txn.Description = *in.Description
	}
	if in.Notes != nil {
		txn.Notes = *in.Notes
	}
	if in.Date != nil {
		txn.Date = *in.Date
	}
	if in.TransferToAccountID != nil {
		txn.TransferToAccountID = *in.TransferToAccountID
	}
	if in.IsRecurring != nil {
		txn.IsRecurring = *in.IsRecurring
	}
}

// UpdateTransaction reverses the stored effect, merges the update and applies the
// new effect. Any failure leaves the transaction and all balances untouched.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, id string, input UpdateTransactionInput) (*domain.Transaction, error) {
	now := uc.env.now()

	var (
		updated  *domain.Transaction
		balances []domain.BalanceChange
	)

	err := uc.env.inTx(ctx, func(tx Transaction) error {
		current, err := uc.txnRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		writer := newBalanceWriter(uc.accountRepo, tx, now)
		if err := writer.apply(ctx, current.Effects(domain.Reverse)); err != nil {
			return err
		}

		next := *current
		input.mergeInto(&next)
		next.Normalize()
		next.UpdatedAt = now

		if err := next.Validate(); err != nil {
			return err
		}

		if err := uc.checkReferences(ctx, tx, &next); err != nil {
			return err
		}

		if err := writer.apply(ctx, next.Effects(domain.Apply)); err != nil {
			return err
		}

		if err := uc.txnRepo.Update(ctx, tx, &next); err != nil {
			return err
		}

		updated = &next
		balances = writer.changes()
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.env.emit(ctx, domain.EventTypeTransactionUpdated, domain.AggregateTypeTransaction, updated.ID, transactionPayload(updated, balances))

	return updated, nil
}

// DeleteTransaction reverses the transaction's effect and removes it.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, id string) error {
	now := uc.env.now()

	var (
		deleted  *domain.Transaction
		balances []domain.BalanceChange
	)

	err := uc.env.inTx(ctx, func(tx Transaction) error {
		current, err := uc.txnRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		writer := newBalanceWriter(uc.accountRepo, tx, now)
		if err := writer.apply(ctx, current.Effects(domain.Reverse)); err != nil {
			return err
		}

		if err := uc.txnRepo.Delete(ctx, tx, id); err != nil {
			return err
		}

		deleted = current
		balances = writer.changes()
		return nil
	})
	if err != nil {
		return err
	}

	uc.env.emit(ctx, domain.EventTypeTransactionDeleted, domain.AggregateTypeTransaction, id, transactionPayload(deleted, balances))

	return nil
}

// GetTransaction returns a transaction joined with its account and category.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.TransactionView, error) {
	var view *domain.TransactionView

	err := uc.env.inReadTx(ctx, func(tx Transaction) error {
		txn, err := uc.txnRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		joiner, err := newViewJoiner(ctx, tx, uc.accountRepo, uc.categoryRepo)
		if err != nil {
			return err
		}

		v := joiner.view(txn)
		view = &v
		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// ListTransactionsInput filters the transaction list. Zero fields match everything.
type ListTransactionsInput struct {
	// AccountID matches the source or the transfer destination.
	AccountID  string
	CategoryID string
	Type       domain.TransactionType
	// From and To bound Date inclusively.
	From time.Time
	To   time.Time
}

func (in ListTransactionsInput) matches(txn *domain.Transaction) bool {
	if in.AccountID != "" && !txn.References(in.AccountID) {
		return false
	}
	if in.CategoryID != "" && txn.CategoryID != in.CategoryID {
		return false
	}
	if in.Type != "" && txn.Type != in.Type {
		return false
	}
	if !in.From.IsZero() && txn.Date.Before(in.From) {
		return false
	}
	if !in.To.IsZero() && txn.Date.After(in.To) {
		return false
	}
	return true
}

// ListTransactions returns matching transactions in insertion order, joined with
// their accounts and categories.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]domain.TransactionView, error) {
	var views []domain.TransactionView

	err := uc.env.inReadTx(ctx, func(tx Transaction) error {
		txns, err := uc.txnRepo.List(ctx, tx)
		if err != nil {
			return err
		}

		joiner, err := newViewJoiner(ctx, tx, uc.accountRepo, uc.categoryRepo)
		if err != nil {
			return err
		}

		views = make([]domain.TransactionView, 0, len(txns))
		for _, txn := range txns {
			if input.matches(txn) {
				views = append(views, joiner.view(txn))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return views, nil
}

// checkReferences verifies the accounts and category txn points at.
func (uc *TransactionUseCase) checkReferences(ctx context.Context, tx Transaction, txn *domain.Transaction) error {
	source, err := uc.accountRepo.GetByID(ctx, tx, txn.AccountID)
	if err != nil {
		return fmt.Errorf("source %s: %w", txn.AccountID, err)
	}

	if txn.Type == domain.TransactionTypeTransfer {
		destination, err := uc.accountRepo.GetByID(ctx, tx, txn.TransferToAccountID)
		if err != nil {
			return fmt.Errorf("destination %s: %w", txn.TransferToAccountID, err)
		}

		if source.Currency != destination.Currency {
			return fmt.Errorf("%w: %s to %s", domain.ErrCurrencyMismatch, source.Currency, destination.Currency)
		}

		return nil
	}

	if txn.CategoryID == "" {
		return nil
	}

	category, err := uc.categoryRepo.GetByID(ctx, tx, txn.CategoryID)
	if err != nil {
		return err
	}

	if !category.Accepts(txn.Type) {
		return fmt.Errorf("%w: %s category on %s", domain.ErrCategoryTypeMismatch, category.Type, txn.Type)
	}

	return nil
}

func transactionPayload(txn *domain.Transaction, balances []domain.BalanceChange) map[string]any {
	return map[string]any{
		"type":                   string(txn.Type),
		"amount":                 txn.Amount.String(),
		"account_id":             txn.AccountID,
		domain.PayloadKeyBalances: balances,
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
