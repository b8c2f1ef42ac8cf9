// Package eventpublisher fans committed ledger events out to logs, metrics,
// caches and an optional message broker.
package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

// Dispatcher publishes every event to all registered publishers.
type Dispatcher struct {
	publishers []usecase.EventPublisher
	logger     zerolog.Logger
}

// NewDispatcher creates a Dispatcher. Nil publishers are skipped.
func NewDispatcher(logger zerolog.Logger, publishers ...usecase.EventPublisher) *Dispatcher {
	d := &Dispatcher{logger: logger}
	for _, p := range publishers {
		if p != nil {
			d.Add(p)
		}
	}
	return d
}

// Add registers another publisher.
func (d *Dispatcher) Add(p usecase.EventPublisher) {
	d.publishers = append(d.publishers, p)
}

// Publish hands the event to every publisher. A failing publisher does not
// stop the others; all failures are returned joined.
func (d *Dispatcher) Publish(ctx context.Context, event *domain.Event) error {
	var errs []error

	for _, p := range d.publishers {
		if err := p.Publish(ctx, event); err != nil {
			d.logger.Error().
				Err(err).
				Str("event_id", event.ID).
				Str("event_type", event.Type).
				Str("publisher", fmt.Sprintf("%T", p)).
				Msg("failed to publish event")
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// LogPublisher is a simple publisher that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		RawJSON("payload", payload).
		Msg("ledger event")

	return nil
}

// CacheInvalidator drops cached dashboard stats whenever the ledger changes.
type CacheInvalidator struct {
	cache usecase.StatsCache
}

// NewCacheInvalidator creates a new CacheInvalidator.
func NewCacheInvalidator(cache usecase.StatsCache) *CacheInvalidator {
	return &CacheInvalidator{cache: cache}
}

// Publish invalidates the stats cache.
func (c *CacheInvalidator) Publish(ctx context.Context, _ *domain.Event) error {
	return c.cache.InvalidateStats(ctx)
}

var (
	_ usecase.EventPublisher = (*Dispatcher)(nil)
	_ usecase.EventPublisher = (*LogPublisher)(nil)
	_ usecase.EventPublisher = (*CacheInvalidator)(nil)
)
