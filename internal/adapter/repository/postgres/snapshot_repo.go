package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripfund/tripfund/internal/domain"
)

// SnapshotRepository implements usecase.SnapshotRepository. It reads the
// trip's members, payments and shares inside a single repeatable-read
// transaction, so every computation sees one consistent point in time.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

const selectSharesByTrip = `
SELECT s.payment_id, s.member_id, s.share_amount, s.share_percentage
FROM payment_shares s
JOIN payments p ON p.id = s.payment_id
WHERE p.trip_id = $1
ORDER BY s.payment_id, s.member_id
`

const tripExists = `
SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1)
`

// Load reads the full trip snapshot.
func (r *SnapshotRepository) Load(ctx context.Context, tripID string) (*domain.Snapshot, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, tripExists, tripID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrTripNotFound
	}

	members, err := loadMembers(ctx, tx, tripID)
	if err != nil {
		return nil, err
	}

	payments, err := loadPayments(ctx, tx, tripID)
	if err != nil {
		return nil, err
	}

	shares, err := loadShares(ctx, tx, tripID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &domain.Snapshot{
		TripID:   tripID,
		Members:  members,
		Payments: payments,
		Shares:   shares,
	}, nil
}

func loadMembers(ctx context.Context, tx pgx.Tx, tripID string) ([]*domain.Member, error) {
	rows, err := tx.Query(ctx, selectMembersByTrip, tripID, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

const selectAllPaymentsByTrip = `
SELECT id, trip_id, payer_member_id, amount, paid_from_fund, expense_date, category_id, description, created_at
FROM payments
WHERE trip_id = $1
ORDER BY expense_date, id
`

func loadPayments(ctx context.Context, tx pgx.Tx, tripID string) ([]*domain.ExpensePayment, error) {
	rows, err := tx.Query(ctx, selectAllPaymentsByTrip, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.ExpensePayment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func loadShares(ctx context.Context, tx pgx.Tx, tripID string) ([]*domain.ExpenseShare, error) {
	rows, err := tx.Query(ctx, selectSharesByTrip, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []*domain.ExpenseShare
	for rows.Next() {
		var (
			share      domain.ExpenseShare
			amount     pgtype.Numeric
			percentage pgtype.Numeric
		)
		if err := rows.Scan(&share.PaymentID, &share.MemberID, &amount, &percentage); err != nil {
			return nil, err
		}
		share.ShareAmount = numericToDecimalPtr(amount)
		share.SharePercentage = numericToDecimalPtr(percentage)
		shares = append(shares, &share)
	}

	return shares, rows.Err()
}
