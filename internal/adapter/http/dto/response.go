package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Currency       string          `json:"currency"`
	Institution    string          `json:"institution,omitempty"`
	LastFour       string          `json:"last_four,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	if a == nil {
		return nil
	}
	return &AccountResponse{
		ID:             a.ID,
		UserID:         a.UserID,
		Name:           a.Name,
		Type:           string(a.Type),
		Balance:        a.Balance,
		InitialBalance: a.InitialBalance,
		Currency:       a.Currency,
		Institution:    a.Institution,
		LastFour:       a.LastFour,
		IsActive:       a.IsActive,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int                `json:"total"`
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Color     string    `json:"color,omitempty"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryFromDomain converts domain category to response.
func CategoryFromDomain(c *domain.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Type:      string(c.Type),
		Color:     c.Color,
		IsDefault: c.IsDefault,
		CreatedAt: c.CreatedAt,
	}
}

// ListCategoriesResponse represents a list of categories.
type ListCategoriesResponse struct {
	Categories []*CategoryResponse `json:"categories"`
	Total      int                 `json:"total"`
}

// CategoriesFromDomain converts domain categories to a list response.
func CategoriesFromDomain(categories []*domain.Category) ListCategoriesResponse {
	result := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = CategoryFromDomain(c)
	}
	return ListCategoriesResponse{Categories: result, Total: len(result)}
}

// TransactionResponse represents a transaction in API responses. The joined
// records are present when they still exist.
type TransactionResponse struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"user_id"`
	AccountID           string          `json:"account_id"`
	CategoryID          string          `json:"category_id,omitempty"`
	Type                string          `json:"type"`
	Amount              decimal.Decimal `json:"amount"`
	Description         string          `json:"description"`
	Notes               string          `json:"notes,omitempty"`
	Date                time.Time       `json:"date"`
	TransferToAccountID string          `json:"transfer_to_account_id,omitempty"`
	IsRecurring         bool            `json:"is_recurring"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`

	Account           *AccountResponse  `json:"account,omitempty"`
	Category          *CategoryResponse `json:"category,omitempty"`
	TransferToAccount *AccountResponse  `json:"transfer_to_account,omitempty"`
}

// TransactionFromDomain converts a stored transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                  t.ID,
		UserID:              t.UserID,
		AccountID:           t.AccountID,
		CategoryID:          t.CategoryID,
		Type:                string(t.Type),
		Amount:              t.Amount,
		Description:         t.Description,
		Notes:               t.Notes,
		Date:                t.Date,
		TransferToAccountID: t.TransferToAccountID,
		IsRecurring:         t.IsRecurring,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

// TransactionViewFromDomain converts a joined transaction to response.
func TransactionViewFromDomain(v domain.TransactionView) *TransactionResponse {
	resp := TransactionFromDomain(&v.Transaction)
	resp.Account = AccountFromDomain(v.Account)
	resp.Category = CategoryFromDomain(v.Category)
	resp.TransferToAccount = AccountFromDomain(v.TransferToAccount)
	return resp
}

// ListTransactionsResponse represents a list of transactions.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int                    `json:"total"`
}

// TransactionViewsFromDomain converts joined transactions to a list response.
func TransactionViewsFromDomain(views []domain.TransactionView) ListTransactionsResponse {
	result := make([]*TransactionResponse, len(views))
	for i, v := range views {
		result[i] = TransactionViewFromDomain(v)
	}
	return ListTransactionsResponse{Transactions: result, Total: len(result)}
}

// AccountBalanceResponse pairs an account with its balance.
type AccountBalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// CategoryTotalResponse is the spending of one category.
type CategoryTotalResponse struct {
	CategoryID string          `json:"category_id,omitempty"`
	Name       string          `json:"name"`
	Color      string          `json:"color,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// CategoryTotalsFromDomain converts category totals to responses.
func CategoryTotalsFromDomain(totals []domain.CategoryTotal) []CategoryTotalResponse {
	result := make([]CategoryTotalResponse, len(totals))
	for i, t := range totals {
		result[i] = CategoryTotalResponse{
			CategoryID: t.CategoryID,
			Name:       t.Name,
			Color:      t.Color,
			Amount:     t.Amount,
			Percentage: t.Percentage,
		}
	}
	return result
}

// DashboardStatsResponse represents the dashboard aggregates.
type DashboardStatsResponse struct {
	TotalBalance       decimal.Decimal          `json:"total_balance"`
	MonthlyIncome      decimal.Decimal          `json:"monthly_income"`
	MonthlyExpenses    decimal.Decimal          `json:"monthly_expenses"`
	NetCashFlow        decimal.Decimal          `json:"net_cash_flow"`
	AccountBalances    []AccountBalanceResponse `json:"account_balances"`
	TopCategories      []CategoryTotalResponse  `json:"top_categories"`
	RecentTransactions []*TransactionResponse   `json:"recent_transactions"`
}

// DashboardStatsFromDomain converts dashboard stats to response.
func DashboardStatsFromDomain(s *domain.DashboardStats) *DashboardStatsResponse {
	balances := make([]AccountBalanceResponse, len(s.AccountBalances))
	for i, b := range s.AccountBalances {
		balances[i] = AccountBalanceResponse{AccountID: b.AccountID, Balance: b.Balance}
	}

	return &DashboardStatsResponse{
		TotalBalance:       s.TotalBalance,
		MonthlyIncome:      s.MonthlyIncome,
		MonthlyExpenses:    s.MonthlyExpenses,
		NetCashFlow:        s.NetCashFlow,
		AccountBalances:    balances,
		TopCategories:      CategoryTotalsFromDomain(s.TopCategories),
		RecentTransactions: TransactionViewsFromDomain(s.RecentTransactions).Transactions,
	}
}

// BudgetResponse represents a budget in API responses.
type BudgetResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	CategoryID      string          `json:"category_id"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	EstimatedAmount decimal.Decimal `json:"estimated_amount"`
	PlannedAmount   decimal.Decimal `json:"planned_amount"`
	ActualAmount    decimal.Decimal `json:"actual_amount"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BudgetFromDomain converts domain budget to response.
func BudgetFromDomain(b *domain.Budget) *BudgetResponse {
	return &BudgetResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		CategoryID:      b.CategoryID,
		Month:           b.Month,
		Year:            b.Year,
		EstimatedAmount: b.EstimatedAmount,
		PlannedAmount:   b.PlannedAmount,
		ActualAmount:    b.ActualAmount,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// ListBudgetsResponse represents a list of budgets.
type ListBudgetsResponse struct {
	Budgets []*BudgetResponse `json:"budgets"`
	Total   int               `json:"total"`
}

// BudgetsFromDomain converts domain budgets to a list response.
func BudgetsFromDomain(budgets []*domain.Budget) ListBudgetsResponse {
	result := make([]*BudgetResponse, len(budgets))
	for i, b := range budgets {
		result[i] = BudgetFromDomain(b)
	}
	return ListBudgetsResponse{Budgets: result, Total: len(result)}
}

// BudgetComparisonResponse compares a budget with actual spending.
type BudgetComparisonResponse struct {
	BudgetID     string          `json:"budget_id"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Budgeted     decimal.Decimal `json:"budgeted"`
	Actual       decimal.Decimal `json:"actual"`
	Difference   decimal.Decimal `json:"difference"`
	Percentage   decimal.Decimal `json:"percentage"`
	Status       string          `json:"status"`
}

// BudgetComparisonsFromDomain converts comparisons to responses.
func BudgetComparisonsFromDomain(comparisons []domain.BudgetComparison) []BudgetComparisonResponse {
	result := make([]BudgetComparisonResponse, len(comparisons))
	for i, c := range comparisons {
		result[i] = BudgetComparisonResponse{
			BudgetID:     c.BudgetID,
			CategoryID:   c.CategoryID,
			CategoryName: c.CategoryName,
			Budgeted:     c.Budgeted,
			Actual:       c.Actual,
			Difference:   c.Difference,
			Percentage:   c.Percentage,
			Status:       string(c.Status),
		}
	}
	return result
}

// SettingsResponse represents the user settings.
type SettingsResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Currency         string    `json:"currency"`
	DateFormat       string    `json:"date_format"`
	FiscalStartMonth int       `json:"fiscal_start_month"`
	FiscalStartYear  int       `json:"fiscal_start_year"`
	DefaultAccountID string    `json:"default_account_id,omitempty"`
	Theme            string    `json:"theme"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SettingsFromDomain converts domain settings to response.
func SettingsFromDomain(s *domain.UserSettings) *SettingsResponse {
	return &SettingsResponse{
		ID:               s.ID,
		UserID:           s.UserID,
		Currency:         s.Currency,
		DateFormat:       s.DateFormat,
		FiscalStartMonth: s.FiscalStartMonth,
		FiscalStartYear:  s.FiscalStartYear,
		DefaultAccountID: s.DefaultAccountID,
		Theme:            string(s.Theme),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// ReconciliationResultResponse represents the reconciliation of one account.
type ReconciliationResultResponse struct {
	AccountID         string          `json:"account_id"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
	TransactionCount  int             `json:"transaction_count"`
	IsReconciled      bool            `json:"is_reconciled"`
	LastChecked       time.Time       `json:"last_checked"`
}

// ReconciliationResultFromUseCase converts a reconciliation result to response.
func ReconciliationResultFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResultResponse {
	return &ReconciliationResultResponse{
		AccountID:         r.AccountID,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		TransactionCount:  r.TransactionCount,
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}

// ReconciliationReportResponse summarizes a reconciliation of every account.
type ReconciliationReportResponse struct {
	TotalAccounts      int                             `json:"total_accounts"`
	ReconciledAccounts int                             `json:"reconciled_accounts"`
	Discrepancies      []*ReconciliationResultResponse `json:"discrepancies"`
	LedgerConsistent   bool                            `json:"ledger_consistent"`
	CheckedAt          time.Time                       `json:"checked_at"`
}

// ReconciliationReportFromUseCase converts a report to response.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	discrepancies := make([]*ReconciliationResultResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationResultFromUseCase(d)
	}
	return &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      discrepancies,
		LedgerConsistent:   r.LedgerConsistent,
		CheckedAt:          r.CheckedAt,
	}
}

// ConsistencyResponse reports the ledger-wide consistency check.
type ConsistencyResponse struct {
	Consistent     bool            `json:"consistent"`
	TotalBalance   decimal.Decimal `json:"total_balance"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	TotalIncome    decimal.Decimal `json:"total_income"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	Drift          decimal.Decimal `json:"drift"`
}

// ConsistencyFromUseCase converts ledger totals to response.
func ConsistencyFromUseCase(t *usecase.LedgerTotals) *ConsistencyResponse {
	drift := t.Drift()
	return &ConsistencyResponse{
		Consistent:     drift.IsZero(),
		TotalBalance:   t.TotalBalance,
		InitialBalance: t.InitialBalance,
		TotalIncome:    t.TotalIncome,
		TotalExpenses:  t.TotalExpenses,
		Drift:          drift,
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
