package metrics

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/ledgerdash/internal/domain"
)

// Metrics holds the ledger Prometheus metrics.
type Metrics struct {
	// Ledger metrics
	LedgerEvents   *prometheus.CounterVec
	AccountBalance *prometheus.GaugeVec
	Transactions   *prometheus.CounterVec

	// Stats cache metrics
	StatsCacheLookups *prometheus.CounterVec

	// Snapshot metrics
	SnapshotsSaved   prometheus.Counter
	SnapshotErrors   prometheus.Counter
	SnapshotDuration prometheus.Histogram
	SnapshotRetries  prometheus.Counter

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LedgerEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerdash_events_total",
				Help: "Total ledger events by type",
			},
			[]string{"type"},
		),
		AccountBalance: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ledgerdash_account_balance",
				Help: "Current account balance",
			},
			[]string{"account_id", "currency"},
		),
		Transactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerdash_transactions_total",
				Help: "Total transactions recorded by type",
			},
			[]string{"type"},
		),

		StatsCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerdash_stats_cache_lookups_total",
				Help: "Dashboard stats cache lookups by result",
			},
			[]string{"result"},
		),

		SnapshotsSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerdash_snapshots_saved_total",
			Help: "Total ledger snapshots saved",
		}),
		SnapshotErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerdash_snapshot_errors_total",
			Help: "Total failed ledger snapshot saves",
		}),
		SnapshotDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerdash_snapshot_duration_seconds",
			Help:    "Duration of ledger snapshot saves",
			Buckets: prometheus.DefBuckets,
		}),
		SnapshotRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerdash_snapshot_retries_total",
			Help: "Snapshot saves retried after a transient database error",
		}),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerdash_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}

// Publish records a ledger event. It implements usecase.EventPublisher.
func (m *Metrics) Publish(_ context.Context, event *domain.Event) error {
	m.LedgerEvents.WithLabelValues(event.Type).Inc()

	if event.Type == domain.EventTypeTransactionCreated {
		if t, ok := event.Payload["type"].(string); ok {
			m.Transactions.WithLabelValues(t).Inc()
		}
	}

	if event.Type == domain.EventTypeAccountDeleted {
		m.AccountBalance.DeletePartialMatch(prometheus.Labels{"account_id": event.AggregateID})
		return nil
	}

	changes, _ := event.Payload[domain.PayloadKeyBalances].([]domain.BalanceChange)
	for _, c := range changes {
		balance, err := strconv.ParseFloat(c.Balance, 64)
		if err != nil {
			continue
		}
		m.AccountBalance.WithLabelValues(c.AccountID, c.Currency).Set(balance)
	}

	return nil
}

// CacheHit counts a stats cache hit.
func (m *Metrics) CacheHit() { m.StatsCacheLookups.WithLabelValues("hit").Inc() }

// CacheMiss counts a stats cache miss.
func (m *Metrics) CacheMiss() { m.StatsCacheLookups.WithLabelValues("miss").Inc() }
