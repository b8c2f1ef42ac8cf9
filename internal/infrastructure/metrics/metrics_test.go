package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/ledgerdash/internal/domain"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.LedgerEvents == nil || m.AccountBalance == nil || m.SnapshotsSaved == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.SnapshotsSaved.Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestPublishTracksBalances(t *testing.T) {
	m := New(prometheus.NewRegistry())
	ctx := context.Background()

	err := m.Publish(ctx, &domain.Event{
		Type:        domain.EventTypeTransactionCreated,
		AggregateID: "t1",
		Payload: map[string]any{
			"type": "expense",
			domain.PayloadKeyBalances: []domain.BalanceChange{
				{AccountID: "a1", Currency: "EUR", Balance: "70.50"},
			},
		},
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if got := testutil.ToFloat64(m.AccountBalance.WithLabelValues("a1", "EUR")); got != 70.5 {
		t.Fatalf("expected balance gauge 70.5, got %v", got)
	}

	if got := testutil.ToFloat64(m.Transactions.WithLabelValues("expense")); got != 1 {
		t.Fatalf("expected one expense counted, got %v", got)
	}

	if got := testutil.ToFloat64(m.LedgerEvents.WithLabelValues(domain.EventTypeTransactionCreated)); got != 1 {
		t.Fatalf("expected one event counted, got %v", got)
	}

	_ = m.Publish(ctx, &domain.Event{Type: domain.EventTypeAccountDeleted, AggregateID: "a1"})

	if got := testutil.CollectAndCount(m.AccountBalance); got != 0 {
		t.Fatalf("expected balance gauge removed after delete, got %d series", got)
	}
}

func TestCacheLookups(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.CacheHit()
	m.CacheHit()
	m.CacheMiss()

	if got := testutil.ToFloat64(m.StatsCacheLookups.WithLabelValues("hit")); got != 2 {
		t.Fatalf("expected 2 hits, got %v", got)
	}
	if got := testutil.ToFloat64(m.StatsCacheLookups.WithLabelValues("miss")); got != 1 {
		t.Fatalf("expected 1 miss, got %v", got)
	}
}
