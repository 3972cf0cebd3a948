package domain

// Snapshot is the value-type bundle one computation operates on: the
// active members of a trip plus its payments and shares. The engine never
// mutates a snapshot and holds no state across calls; assembling a
// consistent snapshot (e.g. inside one transaction) is the persistence
// layer's job.
type Snapshot struct {
	TripID   string
	Members  []*Member
	Payments []*ExpensePayment
	Shares   []*ExpenseShare
}

// MemberByID returns the snapshot member with the given id, or nil.
func (s *Snapshot) MemberByID(id string) *Member {
	for _, m := range s.Members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Administrator returns the single admin member. It fails with
// ErrNoAdministrator or ErrMultipleAdministrators; absence of an admin is
// a modeling bug upstream, never defaulted here.
func (s *Snapshot) Administrator() (*Member, error) {
	var admin *Member
	for _, m := range s.Members {
		if m.IsAdmin() {
			if admin != nil {
				return nil, ErrMultipleAdministrators
			}
			admin = m
		}
	}
	if admin == nil {
		return nil, ErrNoAdministrator
	}
	return admin, nil
}

// SharesByPayment groups the snapshot's shares by payment id.
func (s *Snapshot) SharesByPayment() map[string][]*ExpenseShare {
	grouped := make(map[string][]*ExpenseShare, len(s.Payments))
	for _, sh := range s.Shares {
		grouped[sh.PaymentID] = append(grouped[sh.PaymentID], sh)
	}
	return grouped
}
