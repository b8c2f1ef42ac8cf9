package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

// DateLayout is the calendar-date format accepted next to RFC 3339.
const DateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD, read in loc, or an RFC 3339 timestamp.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Currency       string          `json:"currency"`
	Institution    string          `json:"institution"`
	LastFour       string          `json:"last_four"`
	IsActive       *bool           `json:"is_active,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:           r.Name,
		Type:           domain.AccountType(r.Type),
		InitialBalance: r.InitialBalance,
		Currency:       r.Currency,
		Institution:    r.Institution,
		LastFour:       r.LastFour,
		IsActive:       r.IsActive,
	}
}

// UpdateAccountRequest represents a partial account update.
type UpdateAccountRequest struct {
	Name           *string          `json:"name,omitempty"`
	Type           *string          `json:"type,omitempty"`
	InitialBalance *decimal.Decimal `json:"initial_balance,omitempty"`
	Currency       *string          `json:"currency,omitempty"`
	Institution    *string          `json:"institution,omitempty"`
	LastFour       *string          `json:"last_four,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput() usecase.UpdateAccountInput {
	input := usecase.UpdateAccountInput{
		Name:           r.Name,
		InitialBalance: r.InitialBalance,
		Currency:       r.Currency,
		Institution:    r.Institution,
		LastFour:       r.LastFour,
		IsActive:       r.IsActive,
	}
	if r.Type != nil {
		t := domain.AccountType(*r.Type)
		input.Type = &t
	}
	return input
}

// CreateCategoryRequest represents a request to create a category.
type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCategoryRequest) ToUseCaseInput() usecase.CreateCategoryInput {
	return usecase.CreateCategoryInput{
		Name:  r.Name,
		Type:  domain.CategoryType(r.Type),
		Color: r.Color,
	}
}

// UpdateCategoryRequest represents a partial category update.
type UpdateCategoryRequest struct {
	Name  *string `json:"name,omitempty"`
	Type  *string `json:"type,omitempty"`
	Color *string `json:"color,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCategoryRequest) ToUseCaseInput() usecase.UpdateCategoryInput {
	input := usecase.UpdateCategoryInput{Name: r.Name, Color: r.Color}
	if r.Type != nil {
		t := domain.CategoryType(*r.Type)
		input.Type = &t
	}
	return input
}

// CreateTransactionRequest represents a request to record a transaction.
type CreateTransactionRequest struct {
	AccountID           string          `json:"account_id"`
	CategoryID          string          `json:"category_id"`
	Type                string          `json:"type"`
	Amount              decimal.Decimal `json:"amount"`
	Description         string          `json:"description"`
	Notes               string          `json:"notes"`
	Date                string          `json:"date,omitempty"`
	TransferToAccountID string          `json:"transfer_to_account_id,omitempty"`
	IsRecurring         bool            `json:"is_recurring"`
}

// ToUseCaseInput converts to use case input. Dates without a zone are read in loc.
func (r *CreateTransactionRequest) ToUseCaseInput(loc *time.Location) (usecase.CreateTransactionInput, error) {
	input := usecase.CreateTransactionInput{
		AccountID:           r.AccountID,
		CategoryID:          r.CategoryID,
		Type:                domain.TransactionType(r.Type),
		Amount:              r.Amount,
		Description:         r.Description,
		Notes:               r.Notes,
		TransferToAccountID: r.TransferToAccountID,
		IsRecurring:         r.IsRecurring,
	}

	if r.Date != "" {
		date, err := ParseDate(r.Date, loc)
		if err != nil {
			return input, err
		}
		input.Date = date
	}

	return input, nil
}

// UpdateTransactionRequest represents a partial transaction update.
type UpdateTransactionRequest struct {
	AccountID           *string          `json:"account_id,omitempty"`
	CategoryID          *string          `json:"category_id,omitempty"`
	Type                *string          `json:"type,omitempty"`
	Amount              *decimal.Decimal `json:"amount,omitempty"`
	Description         *string          `json:"description,omitempty"`
	Notes               *string          `json:"notes,omitempty"`
	Date                *string          `json:"date,omitempty"`
	TransferToAccountID *string          `json:"transfer_to_account_id,omitempty"`
	IsRecurring         *bool            `json:"is_recurring,omitempty"`
}

// ToUseCaseInput converts to use case input. Dates without a zone are read in loc.
func (r *UpdateTransactionRequest) ToUseCaseInput(loc *time.Location) (usecase.UpdateTransactionInput, error) {
	input := usecase.UpdateTransactionInput{
		AccountID:           r.AccountID,
		CategoryID:          r.CategoryID,
		Amount:              r.Amount,
		Description:         r.Description,
		Notes:               r.Notes,
		TransferToAccountID: r.TransferToAccountID,
		IsRecurring:         r.IsRecurring,
	}

	if r.Type != nil {
		t := domain.TransactionType(*r.Type)
		input.Type = &t
	}

	if r.Date != nil {
		date, err := ParseDate(*r.Date, loc)
		if err != nil {
			return input, err
		}
		input.Date = &date
	}

	return input, nil
}

// CreateBudgetRequest represents a request to create a budget.
type CreateBudgetRequest struct {
	CategoryID      string          `json:"category_id"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	EstimatedAmount decimal.Decimal `json:"estimated_amount"`
	PlannedAmount   decimal.Decimal `json:"planned_amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBudgetRequest) ToUseCaseInput() usecase.CreateBudgetInput {
	return usecase.CreateBudgetInput{
		CategoryID:      r.CategoryID,
		Month:           r.Month,
		Year:            r.Year,
		EstimatedAmount: r.EstimatedAmount,
		PlannedAmount:   r.PlannedAmount,
	}
}

// UpdateBudgetRequest represents a partial budget update.
type UpdateBudgetRequest struct {
	CategoryID      *string          `json:"category_id,omitempty"`
	Month           *int             `json:"month,omitempty"`
	Year            *int             `json:"year,omitempty"`
	EstimatedAmount *decimal.Decimal `json:"estimated_amount,omitempty"`
	PlannedAmount   *decimal.Decimal `json:"planned_amount,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateBudgetRequest) ToUseCaseInput() usecase.UpdateBudgetInput {
	return usecase.UpdateBudgetInput{
		CategoryID:      r.CategoryID,
		Month:           r.Month,
		Year:            r.Year,
		EstimatedAmount: r.EstimatedAmount,
		PlannedAmount:   r.PlannedAmount,
	}
}

// UpdateSettingsRequest represents a partial settings update.
type UpdateSettingsRequest struct {
	Currency         *string `json:"currency,omitempty"`
	DateFormat       *string `json:"date_format,omitempty"`
	FiscalStartMonth *int    `json:"fiscal_start_month,omitempty"`
	FiscalStartYear  *int    `json:"fiscal_start_year,omitempty"`
	DefaultAccountID *string `json:"default_account_id,omitempty"`
	Theme            *string `json:"theme,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateSettingsRequest) ToUseCaseInput() usecase.UpdateSettingsInput {
	input := usecase.UpdateSettingsInput{
		Currency:         r.Currency,
		DateFormat:       r.DateFormat,
		FiscalStartMonth: r.FiscalStartMonth,
		FiscalStartYear:  r.FiscalStartYear,
		DefaultAccountID: r.DefaultAccountID,
	}
	if r.Theme != nil {
		t := domain.Theme(*r.Theme)
		input.Theme = &t
	}
	return input
}
