package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripfund/tripfund/internal/domain"
	"github.com/tripfund/tripfund/internal/usecase"
)

// TripRepository implements usecase.TripRepository.
type TripRepository struct {
	pool *pgxpool.Pool
}

// NewTripRepository creates a new TripRepository.
func NewTripRepository(pool *pgxpool.Pool) *TripRepository {
	return &TripRepository{pool: pool}
}

const insertTrip = `
INSERT INTO trips (id, name, currency, created_at)
VALUES ($1, $2, $3, $4)
`

// Create creates a new trip inside the given transaction.
func (r *TripRepository) Create(ctx context.Context, tx usecase.Transaction, trip *domain.Trip) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, insertTrip,
		trip.ID,
		trip.Name,
		trip.Currency,
		timeToPgTimestamptz(trip.CreatedAt),
	)

	return err
}

const selectTrip = `
SELECT id, name, currency, created_at
FROM trips
WHERE id = $1
`

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	var (
		trip      domain.Trip
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, selectTrip, id).Scan(
		&trip.ID,
		&trip.Name,
		&trip.Currency,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripNotFound
		}

		return nil, err
	}

	trip.CreatedAt = createdAt.Time

	return &trip, nil
}
