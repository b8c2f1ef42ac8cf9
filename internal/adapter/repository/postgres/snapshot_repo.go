package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

var (
	accountColumns = []string{
		"id", "user_id", "name", "type", "balance", "initial_balance", "currency",
		"institution", "last_four", "is_active", "position", "created_at", "updated_at",
	}
	categoryColumns = []string{
		"id", "user_id", "name", "type", "color", "is_default", "position", "created_at",
	}
	transactionColumns = []string{
		"id", "user_id", "account_id", "category_id", "type", "amount", "description", "notes",
		"date", "transfer_to_account_id", "is_recurring", "position", "created_at", "updated_at",
	}
	budgetColumns = []string{
		"id", "user_id", "category_id", "month", "year", "estimated_amount", "planned_amount",
		"position", "created_at", "updated_at",
	}
)

const (
	truncateSnapshot = `TRUNCATE snapshot_meta, accounts, categories, transactions, budgets, user_settings`

	insertSettings = `INSERT INTO user_settings (id, user_id, currency, date_format, fiscal_start_month,
fiscal_start_year, default_account_id, theme, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	insertMeta = `INSERT INTO snapshot_meta (id, taken_at) VALUES (1, $1)`

	selectMeta = `SELECT taken_at FROM snapshot_meta WHERE id = 1`

	selectAccounts = `SELECT id, user_id, name, type, balance, initial_balance, currency,
institution, last_four, is_active, created_at, updated_at FROM accounts ORDER BY position`

	selectCategories = `SELECT id, user_id, name, type, color, is_default, created_at
FROM categories ORDER BY position`

	selectTransactions = `SELECT id, user_id, account_id, category_id, type, amount, description, notes,
date, transfer_to_account_id, is_recurring, created_at, updated_at FROM transactions ORDER BY position`

	selectBudgets = `SELECT id, user_id, category_id, month, year, estimated_amount, planned_amount,
created_at, updated_at FROM budgets ORDER BY position`

	selectSettings = `SELECT id, user_id, currency, date_format, fiscal_start_month, fiscal_start_year,
default_account_id, theme, created_at, updated_at FROM user_settings LIMIT 1`
)

// SnapshotRepository stores the whole ledger in PostgreSQL, replacing the
// previous snapshot on every save.
type SnapshotRepository struct {
	pool    pgxPool
	retrier *Retrier
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(pool *pgxpool.Pool, retrier *Retrier) *SnapshotRepository {
	return newSnapshotRepository(pool, retrier)
}

func newSnapshotRepository(pool pgxPool, retrier *Retrier) *SnapshotRepository {
	return &SnapshotRepository{pool: pool, retrier: retrier}
}

// Save replaces the stored snapshot.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	save := func() error {
		return inTx(ctx, r.pool, func(tx pgx.Tx) error {
			return r.write(ctx, tx, snapshot)
		})
	}

	if r.retrier == nil {
		return save()
	}
	return r.retrier.Retry(ctx, "save snapshot", save)
}

func (r *SnapshotRepository) write(ctx context.Context, tx pgx.Tx, snapshot *domain.Snapshot) error {
	if _, err := tx.Exec(ctx, truncateSnapshot); err != nil {
		return fmt.Errorf("truncate snapshot: %w", err)
	}

	if err := copyRows(ctx, tx, "accounts", accountColumns, snapshot.Accounts, accountRow); err != nil {
		return err
	}
	if err := copyRows(ctx, tx, "categories", categoryColumns, snapshot.Categories, categoryRow); err != nil {
		return err
	}
	if err := copyRows(ctx, tx, "transactions", transactionColumns, snapshot.Transactions, transactionRow); err != nil {
		return err
	}
	if err := copyRows(ctx, tx, "budgets", budgetColumns, snapshot.Budgets, budgetRow); err != nil {
		return err
	}

	if s := snapshot.Settings; s != nil {
		_, err := tx.Exec(ctx, insertSettings,
			s.ID, s.UserID, s.Currency, s.DateFormat, s.FiscalStartMonth,
			s.FiscalStartYear, s.DefaultAccountID, string(s.Theme), s.CreatedAt, s.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert settings: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, insertMeta, snapshot.TakenAt); err != nil {
		return fmt.Errorf("insert snapshot meta: %w", err)
	}

	return nil
}

func copyRows[T any](ctx context.Context, tx pgx.Tx, table string, columns []string, items []T, row func(T, int) []any) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([][]any, len(items))
	for i, item := range items {
		rows[i] = row(item, i)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy %s: %w", table, err)
	}
	return nil
}

func accountRow(a *domain.Account, pos int) []any {
	return []any{
		a.ID, a.UserID, a.Name, string(a.Type), toNumeric(a.Balance), toNumeric(a.InitialBalance), a.Currency,
		a.Institution, a.LastFour, a.IsActive, pos, a.CreatedAt, a.UpdatedAt,
	}
}

func categoryRow(c *domain.Category, pos int) []any {
	return []any{c.ID, c.UserID, c.Name, string(c.Type), c.Color, c.IsDefault, pos, c.CreatedAt}
}

func transactionRow(t *domain.Transaction, pos int) []any {
	return []any{
		t.ID, t.UserID, t.AccountID, t.CategoryID, string(t.Type), toNumeric(t.Amount), t.Description, t.Notes,
		t.Date, t.TransferToAccountID, t.IsRecurring, pos, t.CreatedAt, t.UpdatedAt,
	}
}

func budgetRow(b *domain.Budget, pos int) []any {
	return []any{
		b.ID, b.UserID, b.CategoryID, b.Month, b.Year, toNumeric(b.EstimatedAmount), toNumeric(b.PlannedAmount),
		pos, b.CreatedAt, b.UpdatedAt,
	}
}

// Load reads the stored snapshot. It returns an empty snapshot when nothing
// has been saved yet.
func (r *SnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	snapshot := &domain.Snapshot{}

	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		var takenAt time.Time
		err := tx.QueryRow(ctx, selectMeta).Scan(&takenAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load snapshot meta: %w", err)
		}
		snapshot.TakenAt = takenAt

		if snapshot.Accounts, err = queryRows(ctx, tx, selectAccounts, scanAccount); err != nil {
			return fmt.Errorf("load accounts: %w", err)
		}
		if snapshot.Categories, err = queryRows(ctx, tx, selectCategories, scanCategory); err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		if snapshot.Transactions, err = queryRows(ctx, tx, selectTransactions, scanTransaction); err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		if snapshot.Budgets, err = queryRows(ctx, tx, selectBudgets, scanBudget); err != nil {
			return fmt.Errorf("load budgets: %w", err)
		}

		settings, err := scanSettings(tx.QueryRow(ctx, selectSettings))
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("load settings: %w", err)
		}
		snapshot.Settings = settings
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

func queryRows[T any](ctx context.Context, tx pgx.Tx, query string, scan func(pgx.Row) (T, error)) ([]T, error) {
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a                       domain.Account
		accountType             string
		balance, initialBalance pgtype.Numeric
	)

	err := row.Scan(&a.ID, &a.UserID, &a.Name, &accountType, &balance, &initialBalance, &a.Currency,
		&a.Institution, &a.LastFour, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	a.Type = domain.AccountType(accountType)
	if a.Balance, err = fromNumeric(balance); err != nil {
		return nil, err
	}
	if a.InitialBalance, err = fromNumeric(initialBalance); err != nil {
		return nil, err
	}

	return &a, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		c            domain.Category
		categoryType string
	)

	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &categoryType, &c.Color, &c.IsDefault, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Type = domain.CategoryType(categoryType)

	return &c, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t       domain.Transaction
		txnType string
		amount  pgtype.Numeric
	)

	err := row.Scan(&t.ID, &t.UserID, &t.AccountID, &t.CategoryID, &txnType, &amount, &t.Description, &t.Notes,
		&t.Date, &t.TransferToAccountID, &t.IsRecurring, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	t.Type = domain.TransactionType(txnType)
	if t.Amount, err = fromNumeric(amount); err != nil {
		return nil, err
	}

	return &t, nil
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		b                  domain.Budget
		estimated, planned pgtype.Numeric
	)

	err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Month, &b.Year, &estimated, &planned,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if b.EstimatedAmount, err = fromNumeric(estimated); err != nil {
		return nil, err
	}
	if b.PlannedAmount, err = fromNumeric(planned); err != nil {
		return nil, err
	}

	return &b, nil
}

func scanSettings(row pgx.Row) (*domain.UserSettings, error) {
	var (
		s     domain.UserSettings
		theme string
	)

	err := row.Scan(&s.ID, &s.UserID, &s.Currency, &s.DateFormat, &s.FiscalStartMonth, &s.FiscalStartYear,
		&s.DefaultAccountID, &theme, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Theme = domain.Theme(theme)

	return &s, nil
}

var _ usecase.SnapshotRepository = (*SnapshotRepository)(nil)
