package domain

import "time"

// Event types
const (
	EventTypeAccountCreated     = "account.created"
	EventTypeAccountUpdated     = "account.updated"
	EventTypeAccountDeleted     = "account.deleted"
	EventTypeCategoryCreated    = "category.created"
	EventTypeCategoryUpdated    = "category.updated"
	EventTypeCategoryDeleted    = "category.deleted"
	EventTypeTransactionCreated = "transaction.created"
	EventTypeTransactionUpdated = "transaction.updated"
	EventTypeTransactionDeleted = "transaction.deleted"
	EventTypeBudgetCreated      = "budget.created"
	EventTypeBudgetUpdated      = "budget.updated"
	EventTypeBudgetDeleted      = "budget.deleted"
	EventTypeSettingsUpdated    = "settings.updated"
)

// Aggregate types
const (
	AggregateTypeAccount     = "account"
	AggregateTypeCategory    = "category"
	AggregateTypeTransaction = "transaction"
	AggregateTypeBudget      = "budget"
	AggregateTypeSettings    = "settings"
)

// Event records a committed change to the ledger.
type Event struct {
	ID            string
	Type          string
	AggregateType string
	AggregateID   string
	Payload       map[string]any
	OccurredAt    time.Time
}

// BalanceChange is carried in transaction event payloads under the "balances" key.
type BalanceChange struct {
	AccountID string `json:"account_id"`
	Currency  string `json:"currency"`
	Balance   string `json:"balance"`
}

// PayloadKeyBalances holds the []BalanceChange an event caused, if any.
const PayloadKeyBalances = "balances"
