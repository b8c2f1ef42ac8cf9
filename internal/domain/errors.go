package domain

import "errors"

var (
	// Lookup errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrSettingsNotFound    = errors.New("settings not found")

	// Conflict errors
	ErrDuplicateID = errors.New("duplicate id")

	// Account errors
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrAccountInUse       = errors.New("account is referenced by transactions")

	// Category errors
	ErrInvalidCategoryName  = errors.New("category name cannot be empty")
	ErrInvalidCategoryType  = errors.New("invalid category type")
	ErrCategoryTypeMismatch = errors.New("category type does not match transaction type")

	// Transaction errors
	ErrInvalidTransactionType        = errors.New("invalid transaction type")
	ErrSourceAccountRequired         = errors.New("source account is required")
	ErrTransferDestinationRequired   = errors.New("transfer requires a destination account")
	ErrUnexpectedTransferDestination = errors.New("only transfers may have a destination account")
	ErrSameAccount                   = errors.New("cannot transfer to same account")
	ErrCurrencyMismatch              = errors.New("cannot transfer between different currencies")
	ErrInvalidAmount                 = errors.New("amount must not be negative")
	ErrDateRequired                  = errors.New("transaction date is required")

	// Budget errors
	ErrInvalidBudgetPeriod = errors.New("invalid budget period")

	// Settings errors
	ErrInvalidTheme       = errors.New("invalid theme")
	ErrInvalidFiscalMonth = errors.New("fiscal start month must be between 1 and 12")
)
