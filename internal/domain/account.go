package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies where the money of an account is held.
type AccountType string

const (
	AccountTypeBank       AccountType = "bank"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeCrypto     AccountType = "crypto"
	AccountTypeWallet     AccountType = "wallet"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeBank, AccountTypeCredit, AccountTypeInvestment, AccountTypeCrypto, AccountTypeWallet:
		return true
	}
	return false
}

// Account represents a user account that holds a balance.
//
// Balance always equals InitialBalance plus the signed effects of every
// transaction that references the account.
type Account struct {
	ID             string
	UserID         string
	Name           string
	Type           AccountType
	Balance        decimal.Decimal
	InitialBalance decimal.Decimal
	Currency       string
	Institution    string
	LastFour       string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks the required fields of an account.
func (a *Account) Validate() error {
	if err := ValidateAccountName(a.Name); err != nil {
		return err
	}

	if !a.Type.IsValid() {
		return ErrInvalidAccountType
	}

	if err := ValidateCurrency(a.Currency); err != nil {
		return err
	}

	return ValidateLastFour(a.LastFour)
}

// ApplyDebit returns new balance after debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns new balance after credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// ApplyEffect returns the new balance after a signed balance effect.
func (a *Account) ApplyEffect(delta decimal.Decimal) decimal.Decimal {
	if delta.IsNegative() {
		return a.ApplyDebit(delta.Neg())
	}
	return a.ApplyCredit(delta)
}
