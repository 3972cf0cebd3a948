package domain

import (
	"github.com/shopspring/decimal"
)

// SettlementParty identifies one side of a settlement transfer.
type SettlementParty struct {
	MemberID    string
	DisplayName string
}

// Settlement is a directed transfer that must happen for all balances to
// net to zero. With hub-and-spoke netting one side is always the
// administrator.
type Settlement struct {
	From   SettlementParty
	To     SettlementParty
	Amount decimal.Decimal
}
