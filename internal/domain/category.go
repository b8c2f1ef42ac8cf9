package domain

import (
	"strings"
	"time"
)

// CategoryType tells whether a category groups income or expenses.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// IsValid reports whether t is a known category type.
func (t CategoryType) IsValid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category labels transactions for reporting and budgeting.
type Category struct {
	ID        string
	UserID    string
	Name      string
	Type      CategoryType
	Color     string
	IsDefault bool
	CreatedAt time.Time
}

// Validate checks the required fields of a category.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidCategoryName
	}

	if !c.Type.IsValid() {
		return ErrInvalidCategoryType
	}

	return ValidateColor(c.Color)
}

// Accepts reports whether a transaction of type t may be filed under c.
func (c *Category) Accepts(t TransactionType) bool {
	switch t {
	case TransactionTypeIncome:
		return c.Type == CategoryTypeIncome
	case TransactionTypeExpense:
		return c.Type == CategoryTypeExpense
	}
	return false
}
