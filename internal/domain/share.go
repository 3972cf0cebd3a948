package domain

import (
	"github.com/shopspring/decimal"

	"github.com/tripfund/tripfund/internal/money"
)

// ExpenseShare records how much of one payment a member owes. Exactly one
// of ShareAmount / SharePercentage is set; percentages resolve to amounts
// against the payment total.
type ExpenseShare struct {
	PaymentID       string
	MemberID        string
	ShareAmount     *decimal.Decimal
	SharePercentage *decimal.Decimal
}

// Resolve returns the share amount for a payment of the given total.
// Percentage shares resolve as total * percentage / 100, rounded to two
// fractional digits.
func (s *ExpenseShare) Resolve(paymentAmount decimal.Decimal) (decimal.Decimal, error) {
	switch {
	case s.ShareAmount != nil && s.SharePercentage != nil:
		return decimal.Zero, ErrShareFieldsExclusive
	case s.ShareAmount != nil:
		return *s.ShareAmount, nil
	case s.SharePercentage != nil:
		return money.Round2(money.PercentOf(paymentAmount, *s.SharePercentage)), nil
	default:
		return decimal.Zero, ErrShareFieldsExclusive
	}
}
