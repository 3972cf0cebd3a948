package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryUncategorized is the sentinel bucket for payments without a
// category.
const CategoryUncategorized = "uncategorized"

// ExpensePayment is a single expense event. Amount is always positive;
// negative and zero amounts are rejected at validation. PaidFromFund
// distinguishes amounts drawn from the pooled contributions from amounts
// the payer covered out-of-pocket.
type ExpensePayment struct {
	ID            string
	TripID        string
	PayerMemberID string
	Amount        decimal.Decimal
	PaidFromFund  bool
	ExpenseDate   time.Time
	CategoryID    string
	Description   string
	CreatedAt     time.Time
}

// Category returns the category bucket for statistics, substituting the
// sentinel for empty categories.
func (p *ExpensePayment) Category() string {
	if p.CategoryID == "" {
		return CategoryUncategorized
	}
	return p.CategoryID
}
