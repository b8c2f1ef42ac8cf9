package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/iho/ledgerdash/internal/domain"
)

const statsKey = "stats:dashboard"

// StatsCache implements usecase.StatsCache inside the process. It serves
// single-instance deployments that run without Redis. Cached stats are shared
// between readers and must not be modified.
type StatsCache struct {
	cache    *gocache.Cache
	observer interface {
		CacheHit()
		CacheMiss()
	}
}

// NewStatsCache creates a StatsCache that purges expired entries every cleanup interval.
func NewStatsCache(cleanup time.Duration) *StatsCache {
	return &StatsCache{cache: gocache.New(gocache.NoExpiration, cleanup)}
}

// WithObserver reports hits and misses to o.
func (c *StatsCache) WithObserver(o interface {
	CacheHit()
	CacheMiss()
}) *StatsCache {
	c.observer = o
	return c
}

// GetStats returns the cached stats, or false on a miss.
func (c *StatsCache) GetStats(_ context.Context) (*domain.DashboardStats, bool, error) {
	v, ok := c.cache.Get(statsKey)
	if !ok {
		if c.observer != nil {
			c.observer.CacheMiss()
		}
		return nil, false, nil
	}

	if c.observer != nil {
		c.observer.CacheHit()
	}
	return v.(*domain.DashboardStats), true, nil
}

// SetStats caches stats for ttl.
func (c *StatsCache) SetStats(_ context.Context, stats *domain.DashboardStats, ttl time.Duration) error {
	c.cache.Set(statsKey, stats, ttl)
	return nil
}

// InvalidateStats drops the cached stats.
func (c *StatsCache) InvalidateStats(_ context.Context) error {
	c.cache.Delete(statsKey)
	return nil
}
