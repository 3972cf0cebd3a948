package domain

import (
	"github.com/shopspring/decimal"
)

// DebtEdge is one directed debt between two members, as recorded on a
// BalanceRecord after settlement resolution.
type DebtEdge struct {
	MemberID    string
	DisplayName string
	Amount      decimal.Decimal
}

// BalanceRecord is the per-member result of a balance computation.
// Balance = Contribution + TotalPaid - TotalShare. OwesTo and OwedBy are
// populated by the settlement resolver, not the calculator.
type BalanceRecord struct {
	MemberID     string
	DisplayName  string
	Role         Role
	IsVirtual    bool
	Contribution decimal.Decimal
	TotalPaid    decimal.Decimal
	TotalShare   decimal.Decimal
	Balance      decimal.Decimal
	OwesTo       []DebtEdge
	OwedBy       []DebtEdge
}
