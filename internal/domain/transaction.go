package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType decides how a transaction moves account balances.
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

// Direction is the sign used when a balance effect is applied or reversed.
type Direction int

const (
	Apply   Direction = 1
	Reverse Direction = -1
)

// Transaction represents a single money movement on one or two accounts.
//
// Amount is a non-negative magnitude; the direction comes from Type.
// TransferToAccountID is set if and only if Type is transfer.
type Transaction struct {
	ID                  string
	UserID              string
	AccountID           string
	CategoryID          string
	Type                TransactionType
	Amount              decimal.Decimal
	Description         string
	Notes               string
	Date                time.Time
	TransferToAccountID string
	IsRecurring         bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// BalanceEffect is the signed delta a transaction applies to one account.
type BalanceEffect struct {
	AccountID string
	Delta     decimal.Decimal
}

// Normalize drops fields that have no meaning for the transaction type.
func (t *Transaction) Normalize() {
	if t.Type == TransactionTypeTransfer {
		t.CategoryID = ""
		return
	}
	t.TransferToAccountID = ""
}

// Validate checks the transaction shape. Account existence is checked by the store.
func (t *Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidTransactionType
	}

	if t.AccountID == "" {
		return ErrSourceAccountRequired
	}

	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}

	if t.Type == TransactionTypeTransfer {
		if t.TransferToAccountID == "" {
			return ErrTransferDestinationRequired
		}
		if t.TransferToAccountID == t.AccountID {
			return ErrSameAccount
		}
	} else if t.TransferToAccountID != "" {
		return ErrUnexpectedTransferDestination
	}

	if t.Date.IsZero() {
		return ErrDateRequired
	}

	return nil
}

// Effects returns the balance effects of t in the given direction.
func (t *Transaction) Effects(dir Direction) []BalanceEffect {
	amount := t.Amount
	if dir == Reverse {
		amount = amount.Neg()
	}

	switch t.Type {
	case TransactionTypeIncome:
		return []BalanceEffect{{AccountID: t.AccountID, Delta: amount}}
	case TransactionTypeExpense:
		return []BalanceEffect{{AccountID: t.AccountID, Delta: amount.Neg()}}
	case TransactionTypeTransfer:
		return []BalanceEffect{
			{AccountID: t.AccountID, Delta: amount.Neg()},
			{AccountID: t.TransferToAccountID, Delta: amount},
		}
	}

	return nil
}

// References reports whether t moves money on the given account.
func (t *Transaction) References(accountID string) bool {
	return t.AccountID == accountID || t.TransferToAccountID == accountID
}

// InMonth reports whether t is dated within the given calendar month, as seen in loc.
func (t *Transaction) InMonth(year int, month time.Month, loc *time.Location) bool {
	d := t.Date
	if loc != nil {
		d = d.In(loc)
	}
	return d.Year() == year && d.Month() == month
}

// TransactionView is a transaction joined with the records it references.
// It is computed at read time and never stored.
type TransactionView struct {
	Transaction

	Account           *Account
	Category          *Category
	TransferToAccount *Account
}
