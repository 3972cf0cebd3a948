package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tripfund/tripfund/internal/domain"
)

// TripRepository defines data access for trips.
type TripRepository interface {
	Create(ctx context.Context, tx Transaction, trip *domain.Trip) error
	GetByID(ctx context.Context, id string) (*domain.Trip, error)
}

// MemberRepository defines data access for members.
type MemberRepository interface {
	Create(ctx context.Context, tx Transaction, member *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	ListByTrip(ctx context.Context, tripID string, activeOnly bool) ([]*domain.Member, error)
	UpdateContribution(ctx context.Context, tx Transaction, id string, contribution decimal.Decimal, updatedAt time.Time) error
}

// PaymentRepository defines data access for payments and their shares.
type PaymentRepository interface {
	Create(ctx context.Context, tx Transaction, payment *domain.ExpensePayment, shares []*domain.ExpenseShare) error
	GetByID(ctx context.Context, id string) (*domain.ExpensePayment, error)
	ListByTrip(ctx context.Context, tripID string, limit, offset int) ([]*domain.ExpensePayment, error)
}

// SnapshotRepository assembles the consistent per-trip snapshot the
// engine computes over. Implementations must read members, payments and
// shares inside one transaction.
type SnapshotRepository interface {
	Load(ctx context.Context, tripID string) (*domain.Snapshot, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
