package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds how long a use case may hold the store lock.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultStatsCacheTTL is how long dashboard stats stay cached.
	DefaultStatsCacheTTL = 30 * time.Second

	// DefaultOwnerID owns every record when no user is given.
	DefaultOwnerID = "user_1"

	// DefaultCurrency is used for accounts created without a currency.
	DefaultCurrency = "EUR"
)
