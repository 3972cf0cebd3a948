package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role identifies a member's role within a trip.
type Role string

const (
	// RoleAdmin marks the fund administrator. Exactly one active member
	// per trip holds this role; it is the settlement hub.
	RoleAdmin Role = "admin"
	// RoleMember marks a regular participant.
	RoleMember Role = "member"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Trip is the unit of isolation: one shared fund with its members,
// payments and shares.
type Trip struct {
	ID        string
	Name      string
	Currency  string
	CreatedAt time.Time
}

// Member represents a trip participant. Virtual members are placeholders
// with no backing account and are treated identically in all arithmetic.
type Member struct {
	ID           string
	TripID       string
	DisplayName  string
	Role         Role
	IsVirtual    bool
	Contribution decimal.Decimal
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the member is the fund administrator.
func (m *Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// ContributionUpdate is one entry of an atomic batch contribution update.
type ContributionUpdate struct {
	MemberID     string
	Contribution decimal.Decimal
}
