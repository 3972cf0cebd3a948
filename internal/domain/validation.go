package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tripfund/tripfund/internal/money"
)

// Validation constants
const (
	MaxDisplayNameLength = 255
	MinDisplayNameLength = 1
)

var onehundred = decimal.NewFromInt(100)

// ValidateDisplayName validates a member display name.
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinDisplayNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidDisplayName)
	}

	if len(name) > MaxDisplayNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidDisplayName, MaxDisplayNameLength)
	}

	return nil
}

// ValidateContribution validates a member contribution amount.
func ValidateContribution(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeContribution
	}
	return nil
}

// ValidateShare validates a single share row in isolation: exactly one of
// the two fields set, percentage inside [0, 100].
func ValidateShare(s *ExpenseShare) error {
	if (s.ShareAmount == nil) == (s.SharePercentage == nil) {
		return fmt.Errorf("%w: payment %s member %s", ErrShareFieldsExclusive, s.PaymentID, s.MemberID)
	}

	if s.SharePercentage != nil {
		if s.SharePercentage.IsNegative() || s.SharePercentage.GreaterThan(onehundred) {
			return fmt.Errorf("%w: got %s", ErrPercentageOutOfRange, s.SharePercentage)
		}
	}

	return nil
}

// Validate checks the snapshot's data integrity before it reaches the
// balance calculator: unique member ids, exactly one administrator,
// non-negative contributions, positive payment amounts, known payers,
// and for every payment a complete share set whose resolved amounts sum
// to the payment amount within tolerance. A malformed snapshot is
// rejected whole; nothing is dropped or redistributed.
func (s *Snapshot) Validate() error {
	members := make(map[string]*Member, len(s.Members))
	for _, m := range s.Members {
		if _, ok := members[m.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateMember, m.ID)
		}
		if !m.Role.Valid() {
			return fmt.Errorf("%w: member %s has role %q", ErrInvalidRole, m.ID, m.Role)
		}
		if err := ValidateContribution(m.Contribution); err != nil {
			return fmt.Errorf("member %s: %w", m.ID, err)
		}
		members[m.ID] = m
	}

	if _, err := s.Administrator(); err != nil {
		return err
	}

	payments := make(map[string]*ExpensePayment, len(s.Payments))
	for _, p := range s.Payments {
		if p.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: payment %s has amount %s", ErrNonPositiveAmount, p.ID, p.Amount)
		}
		if _, ok := members[p.PayerMemberID]; !ok {
			return fmt.Errorf("%w: payment %s payer %s", ErrUnknownPayer, p.ID, p.PayerMemberID)
		}
		payments[p.ID] = p
	}

	shareSums := make(map[string]decimal.Decimal, len(payments))
	for _, sh := range s.Shares {
		p, ok := payments[sh.PaymentID]
		if !ok {
			return fmt.Errorf("%w: payment %s", ErrUnknownPayment, sh.PaymentID)
		}
		if _, ok := members[sh.MemberID]; !ok {
			return fmt.Errorf("%w: payment %s member %s", ErrUnknownMember, sh.PaymentID, sh.MemberID)
		}
		if err := ValidateShare(sh); err != nil {
			return err
		}

		resolved, err := sh.Resolve(p.Amount)
		if err != nil {
			return err
		}
		shareSums[sh.PaymentID] = shareSums[sh.PaymentID].Add(resolved)
	}

	for id, p := range payments {
		sum, ok := shareSums[id]
		if !ok {
			return fmt.Errorf("%w: payment %s", ErrMissingShares, id)
		}
		if !money.EqualWithinTolerance(sum, p.Amount, money.Tolerance) {
			return fmt.Errorf("%w: payment %s amount %s, shares %s",
				ErrShareSumMismatch, id, money.Format(p.Amount), money.Format(sum))
		}
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
