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

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const insertPayment = `
INSERT INTO payments (id, trip_id, payer_member_id, amount, paid_from_fund, expense_date, category_id, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

const insertShare = `
INSERT INTO payment_shares (payment_id, member_id, share_amount, share_percentage)
VALUES ($1, $2, $3, $4)
`

// Create stores a payment together with its complete share set. Both go
// through the caller's transaction so a payment never becomes visible
// without its shares.
func (r *PaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.ExpensePayment, shares []*domain.ExpenseShare) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, insertPayment,
		payment.ID,
		payment.TripID,
		payment.PayerMemberID,
		decimalToNumeric(payment.Amount),
		payment.PaidFromFund,
		timeToPgTimestamptz(payment.ExpenseDate),
		payment.CategoryID,
		payment.Description,
		timeToPgTimestamptz(payment.CreatedAt),
	)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, sh := range shares {
		batch.Queue(insertShare,
			sh.PaymentID,
			sh.MemberID,
			decimalPtrToNumeric(sh.ShareAmount),
			decimalPtrToNumeric(sh.SharePercentage),
		)
	}

	return pgxTx.SendBatch(ctx, batch).Close()
}

const selectPayment = `
SELECT id, trip_id, payer_member_id, amount, paid_from_fund, expense_date, category_id, description, created_at
FROM payments
WHERE id = $1
`

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.ExpensePayment, error) {
	row := r.pool.QueryRow(ctx, selectPayment, id)

	payment, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}

		return nil, err
	}

	return payment, nil
}

const selectPaymentsByTrip = `
SELECT id, trip_id, payer_member_id, amount, paid_from_fund, expense_date, category_id, description, created_at
FROM payments
WHERE trip_id = $1
ORDER BY expense_date, id
LIMIT $2 OFFSET $3
`

// ListByTrip lists a trip's payments ordered by expense date.
func (r *PaymentRepository) ListByTrip(ctx context.Context, tripID string, limit, offset int) ([]*domain.ExpensePayment, error) {
	rows, err := r.pool.Query(ctx, selectPaymentsByTrip, tripID, int32(limit), int32(offset))
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

func scanPayment(row pgx.Row) (*domain.ExpensePayment, error) {
	var (
		payment     domain.ExpensePayment
		amount      pgtype.Numeric
		expenseDate pgtype.Timestamptz
		createdAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&payment.ID,
		&payment.TripID,
		&payment.PayerMemberID,
		&amount,
		&payment.PaidFromFund,
		&expenseDate,
		&payment.CategoryID,
		&payment.Description,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	payment.Amount = numericToDecimal(amount)
	payment.ExpenseDate = expenseDate.Time
	payment.CreatedAt = createdAt.Time

	return &payment, nil
}
