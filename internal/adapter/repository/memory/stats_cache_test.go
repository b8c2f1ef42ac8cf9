package memory

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

func TestStatsCache_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	obs := &countingObserver{}
	cache := NewStatsCache(time.Minute).WithObserver(obs)

	_, ok, err := cache.GetStats(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	stats := &domain.DashboardStats{TotalBalance: decimal.NewFromInt(42)}
	require.NoError(t, cache.SetStats(ctx, stats, time.Minute))

	got, ok, err := cache.GetStats(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.TotalBalance.Equal(decimal.NewFromInt(42)))

	require.NoError(t, cache.InvalidateStats(ctx))
	_, ok, _ = cache.GetStats(ctx)
	assert.False(t, ok)

	assert.Equal(t, 1, obs.hits)
	assert.Equal(t, 2, obs.misses)
}

func TestStatsCache_Expires(t *testing.T) {
	ctx := context.Background()
	cache := NewStatsCache(time.Minute)

	require.NoError(t, cache.SetStats(ctx, &domain.DashboardStats{}, 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, ok, err := cache.GetStats(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
