package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

const statsKey = "stats:dashboard"

// CacheObserver is told about every cache lookup.
type CacheObserver interface {
	CacheHit()
	CacheMiss()
}

// StatsCache implements usecase.StatsCache using Redis.
type StatsCache struct {
	client   *redis.Client
	prefix   string
	observer CacheObserver
}

// StatsCacheOption configures a StatsCache.
type StatsCacheOption func(*StatsCache)

// WithObserver reports hits and misses to o.
func WithObserver(o CacheObserver) StatsCacheOption {
	return func(c *StatsCache) {
		c.observer = o
	}
}

// WithPrefix namespaces the cache keys.
func WithPrefix(prefix string) StatsCacheOption {
	return func(c *StatsCache) {
		c.prefix = prefix
	}
}

// NewStatsCache creates a new StatsCache.
func NewStatsCache(client *redis.Client, opts ...StatsCacheOption) *StatsCache {
	c := &StatsCache{
		client: client,
		prefix: "ledgerdash:",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetStats returns the cached stats, or false on a miss.
func (c *StatsCache) GetStats(ctx context.Context) (*domain.DashboardStats, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+statsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		c.miss()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var stats domain.DashboardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		// A corrupt entry is dropped and treated as a miss.
		c.client.Del(ctx, c.prefix+statsKey)
		c.miss()
		return nil, false, nil
	}

	if c.observer != nil {
		c.observer.CacheHit()
	}
	return &stats, true, nil
}

// SetStats stores stats for ttl.
func (c *StatsCache) SetStats(ctx context.Context, stats *domain.DashboardStats, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	return c.client.Set(ctx, c.prefix+statsKey, data, ttl).Err()
}

// InvalidateStats drops the cached stats.
func (c *StatsCache) InvalidateStats(ctx context.Context) error {
	return c.client.Del(ctx, c.prefix+statsKey).Err()
}

func (c *StatsCache) miss() {
	if c.observer != nil {
		c.observer.CacheMiss()
	}
}

var _ usecase.StatsCache = (*StatsCache)(nil)
