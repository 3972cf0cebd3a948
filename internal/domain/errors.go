package domain

import "errors"

var (
	// Not-found errors
	ErrTripNotFound    = errors.New("trip not found")
	ErrMemberNotFound  = errors.New("member not found")
	ErrPaymentNotFound = errors.New("payment not found")

	// Precondition faults
	ErrNoAdministrator        = errors.New("trip has no administrator")
	ErrMultipleAdministrators = errors.New("trip has more than one administrator")

	// Data-integrity faults, surfaced by snapshot validation before the
	// calculator runs. The engine never corrects these silently.
	ErrUnknownMember        = errors.New("share references a member not in the snapshot")
	ErrUnknownPayment       = errors.New("share references a payment not in the snapshot")
	ErrUnknownPayer         = errors.New("payment references a payer not in the snapshot")
	ErrMissingShares        = errors.New("payment has no shares; the caller must supply a complete share set")
	ErrShareSumMismatch     = errors.New("resolved shares do not sum to the payment amount")
	ErrShareFieldsExclusive = errors.New("exactly one of share amount and share percentage must be set")
	ErrPercentageOutOfRange = errors.New("share percentage must be between 0 and 100")
	ErrNonPositiveAmount    = errors.New("payment amount must be positive")
	ErrNegativeContribution = errors.New("contribution must not be negative")
	ErrDuplicateMember      = errors.New("duplicate member id in snapshot")

	// Input validation
	ErrInvalidDisplayName = errors.New("invalid display name")
	ErrInvalidRole        = errors.New("invalid member role")
)
