package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// PostgreSQL error codes worth another attempt.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrConnectionFailure    = "08006"
	pgErrAdminShutdown        = "57P01"
)

// Retrier reruns snapshot writes with exponential backoff on transient errors.
type Retrier struct {
	policy  RetryPolicy
	logger  zerolog.Logger
	onRetry func()
}

// RetryPolicy bounds how long and how often a write is retried.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryPolicy suits a snapshot save: a few quick attempts within a few seconds.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:      3,
	InitialInterval: 50 * time.Millisecond,
	MaxInterval:     time.Second,
	MaxElapsedTime:  10 * time.Second,
}

// RetrierOption configures a Retrier.
type RetrierOption func(*Retrier)

// WithPolicy replaces DefaultRetryPolicy.
func WithPolicy(p RetryPolicy) RetrierOption {
	return func(r *Retrier) { r.policy = p }
}

// WithRetryHook calls fn before every retry.
func WithRetryHook(fn func()) RetrierOption {
	return func(r *Retrier) { r.onRetry = fn }
}

// NewRetrier creates a new Retrier.
func NewRetrier(logger zerolog.Logger, opts ...RetrierOption) *Retrier {
	r := &Retrier{policy: DefaultRetryPolicy, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retry runs operation until it succeeds, fails permanently or the policy is exhausted.
func (r *Retrier) Retry(ctx context.Context, name string, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.policy.InitialInterval
	b.MaxInterval = r.policy.MaxInterval
	b.MaxElapsedTime = r.policy.MaxElapsedTime

	attempt := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		if !isRetryableError(err) || attempt >= r.policy.MaxRetries {
			return backoff.Permanent(err)
		}
		attempt++

		r.logger.Warn().
			Err(err).
			Str("operation", name).
			Int("retry", attempt).
			Msg("retryable database error, retrying")
		if r.onRetry != nil {
			r.onRetry()
		}

		return err
	}, backoff.WithContext(b, ctx))
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrDeadlock, pgErrSerializationFailure, pgErrConnectionFailure, pgErrAdminShutdown:
			return true
		}
		return false
	}
	return pgconn.SafeToRetry(err)
}
