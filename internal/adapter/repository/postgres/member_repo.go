package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tripfund/tripfund/internal/domain"
	"github.com/tripfund/tripfund/internal/usecase"
)

// MemberRepository implements usecase.MemberRepository.
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

const insertMember = `
INSERT INTO members (id, trip_id, display_name, role, is_virtual, contribution, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// Create creates a new member inside the given transaction.
func (r *MemberRepository) Create(ctx context.Context, tx usecase.Transaction, member *domain.Member) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, insertMember,
		member.ID,
		member.TripID,
		member.DisplayName,
		string(member.Role),
		member.IsVirtual,
		decimalToNumeric(member.Contribution),
		member.IsActive,
		timeToPgTimestamptz(member.CreatedAt),
		timeToPgTimestamptz(member.UpdatedAt),
	)

	return err
}

const selectMember = `
SELECT id, trip_id, display_name, role, is_virtual, contribution, is_active, created_at, updated_at
FROM members
WHERE id = $1
`

// GetByID retrieves a member by ID.
func (r *MemberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	row := r.pool.QueryRow(ctx, selectMember, id)

	member, err := scanMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}

		return nil, err
	}

	return member, nil
}

const selectMembersByTrip = `
SELECT id, trip_id, display_name, role, is_virtual, contribution, is_active, created_at, updated_at
FROM members
WHERE trip_id = $1 AND (NOT $2::boolean OR is_active)
ORDER BY created_at, id
`

// ListByTrip lists a trip's members in creation order. With activeOnly
// set, deactivated members are excluded.
func (r *MemberRepository) ListByTrip(ctx context.Context, tripID string, activeOnly bool) ([]*domain.Member, error) {
	rows, err := r.pool.Query(ctx, selectMembersByTrip, tripID, activeOnly)
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

const updateMemberContribution = `
UPDATE members
SET contribution = $2, updated_at = $3
WHERE id = $1
`

// UpdateContribution sets a member's contribution inside the given
// transaction.
func (r *MemberRepository) UpdateContribution(ctx context.Context, tx usecase.Transaction, id string, contribution decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, updateMemberContribution,
		id,
		decimalToNumeric(contribution),
		timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}

	return nil
}

func scanMember(row pgx.Row) (*domain.Member, error) {
	var (
		member       domain.Member
		role         string
		contribution pgtype.Numeric
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&member.ID,
		&member.TripID,
		&member.DisplayName,
		&role,
		&member.IsVirtual,
		&contribution,
		&member.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	member.Role = domain.Role(role)
	member.Contribution = numericToDecimal(contribution)
	member.CreatedAt = createdAt.Time
	member.UpdatedAt = updatedAt.Time

	return &member, nil
}
