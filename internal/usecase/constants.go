package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction. This prevents long-running transactions from blocking
	// tables.
	DefaultTransactionTimeout = 10 * time.Second

	// StatisticsCacheTTL is how long computed statistics are cached.
	// Mutating operations invalidate the entry early.
	StatisticsCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
