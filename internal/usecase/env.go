package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerdash/internal/domain"
)

// Env bundles the collaborators shared by every ledger use case.
type Env struct {
	TxManager TransactionManager
	IDGen     IDGenerator
	Clock     Clock
	// Publisher is optional; events are dropped when nil.
	Publisher EventPublisher
	// OwnerID defaults to DefaultOwnerID.
	OwnerID string
}

func (e Env) owner(userID string) string {
	if userID != "" {
		return userID
	}
	if e.OwnerID != "" {
		return e.OwnerID
	}
	return DefaultOwnerID
}

func (e Env) now() time.Time {
	return e.Clock.Now()
}

// inTx runs fn inside an exclusive store transaction and commits when fn succeeds.
func (e Env) inTx(ctx context.Context, fn func(tx Transaction) error) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := e.TxManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// inReadTx runs fn inside a shared store transaction.
func (e Env) inReadTx(ctx context.Context, fn func(tx Transaction) error) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := e.TxManager.BeginReadOnly(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// emit publishes a committed event. Failures are logged and never returned.
func (e Env) emit(ctx context.Context, eventType, aggregateType, aggregateID string, payload map[string]any) {
	if e.Publisher == nil {
		return
	}

	event := &domain.Event{
		ID:            e.IDGen.Generate(),
		Type:          eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Payload:       payload,
		OccurredAt:    e.now(),
	}

	if err := e.Publisher.Publish(ctx, event); err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("event_type", eventType).
			Str("aggregate_id", aggregateID).
			Msg("failed to publish event")
	}
}
