package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ledgerdash/internal/adapter/repository/memory"
	"github.com/iho/ledgerdash/internal/app"
	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase/mocks"
)

func newLedger() *app.Ledger {
	return app.NewLedger(memory.NewStore(), app.Options{
		IDGen: mocks.NewMockIDGenerator(),
		Clock: mocks.NewMockClock(time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)),
	})
}

func TestSeederCreatesDefaults(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	result, err := New(l.Categories, l.Accounts).Run(ctx, Options{Categories: true, DemoAccounts: true})
	require.NoError(t, err)
	assert.Equal(t, 19, result.Categories)
	assert.Equal(t, 5, result.Accounts)

	expense, err := l.Categories.ListCategories(ctx, domain.CategoryTypeExpense)
	require.NoError(t, err)
	assert.Len(t, expense, 14)

	income, err := l.Categories.ListCategories(ctx, domain.CategoryTypeIncome)
	require.NoError(t, err)
	assert.Len(t, income, 5)
	for _, c := range income {
		assert.True(t, c.IsDefault)
	}

	stats, err := l.Dashboard.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "4110.33", stats.TotalBalance.String())
}

func TestSeederIsIdempotent(t *testing.T) {
	ctx := context.Background()
	l := newLedger()
	s := New(l.Categories, l.Accounts)

	_, err := s.Run(ctx, Options{Categories: true, DemoAccounts: true})
	require.NoError(t, err)

	result, err := s.Run(ctx, Options{Categories: true, DemoAccounts: true})
	require.NoError(t, err)
	assert.Zero(t, result.Categories)
	assert.Zero(t, result.Accounts)

	all, err := l.Categories.ListCategories(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 19)
}

func TestSeederRespectsOptions(t *testing.T) {
	ctx := context.Background()
	l := newLedger()

	result, err := New(l.Categories, l.Accounts).Run(ctx, Options{Categories: true})
	require.NoError(t, err)
	assert.Equal(t, 19, result.Categories)
	assert.Zero(t, result.Accounts)

	accounts, err := l.Accounts.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}
