package redis

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ledgerdash/internal/domain"
)

type countingObserver struct {
	hits, misses int
}

func (o *countingObserver) CacheHit()  { o.hits++ }
func (o *countingObserver) CacheMiss() { o.misses++ }

func sampleStats() *domain.DashboardStats {
	return &domain.DashboardStats{
		TotalBalance:    decimal.RequireFromString("1250.75"),
		MonthlyIncome:   decimal.RequireFromString("3000"),
		MonthlyExpenses: decimal.RequireFromString("120.5"),
		NetCashFlow:     decimal.RequireFromString("2879.5"),
		AccountBalances: []domain.AccountBalance{
			{AccountID: "acc-1", Balance: decimal.RequireFromString("1250.75")},
		},
		TopCategories:      []domain.CategoryTotal{},
		RecentTransactions: []domain.TransactionView{},
	}
}

func TestStatsCacheMissThenHit(t *testing.T) {
	client, _ := newTestRedisClient(t)

	obs := &countingObserver{}
	cache := NewStatsCache(client, WithObserver(obs))
	ctx := context.Background()

	stats, ok, err := cache.GetStats(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, stats)

	require.NoError(t, cache.SetStats(ctx, sampleStats(), time.Minute))

	stats, ok, err = cache.GetStats(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1250.75", stats.TotalBalance.String())
	assert.Equal(t, "2879.5", stats.NetCashFlow.String())
	require.Len(t, stats.AccountBalances, 1)
	assert.Equal(t, "acc-1", stats.AccountBalances[0].AccountID)

	assert.Equal(t, 1, obs.hits)
	assert.Equal(t, 1, obs.misses)
}

func TestStatsCacheExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewStatsCache(client)
	ctx := context.Background()

	require.NoError(t, cache.SetStats(ctx, sampleStats(), 30*time.Second))
	mr.FastForward(31 * time.Second)

	_, ok, err := cache.GetStats(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatsCacheInvalidate(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewStatsCache(client, WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, cache.SetStats(ctx, sampleStats(), time.Minute))
	assert.True(t, mr.Exists("test:"+statsKey))

	require.NoError(t, cache.InvalidateStats(ctx))

	_, ok, err := cache.GetStats(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatsCacheCorruptEntryIsMiss(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewStatsCache(client)
	ctx := context.Background()

	require.NoError(t, mr.Set(cache.prefix+statsKey, "{not json"))

	_, ok, err := cache.GetStats(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists(cache.prefix+statsKey))
}

func TestStatsCacheReadError(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewStatsCache(client)
	mr.Close()

	_, ok, err := cache.GetStats(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}
