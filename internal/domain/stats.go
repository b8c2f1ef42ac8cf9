package domain

import "github.com/shopspring/decimal"

// RecentTransactionsLimit is how many transactions the dashboard shows.
const RecentTransactionsLimit = 10

// AccountBalance pairs an account with its current balance.
type AccountBalance struct {
	AccountID string
	Balance   decimal.Decimal
}

// CategoryTotal is the amount spent in one category over a period.
type CategoryTotal struct {
	CategoryID string
	Name       string
	Color      string
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

// DashboardStats are the aggregates shown on the dashboard.
type DashboardStats struct {
	TotalBalance       decimal.Decimal
	MonthlyIncome      decimal.Decimal
	MonthlyExpenses    decimal.Decimal
	NetCashFlow        decimal.Decimal
	AccountBalances    []AccountBalance
	TopCategories      []CategoryTotal
	RecentTransactions []TransactionView
}
