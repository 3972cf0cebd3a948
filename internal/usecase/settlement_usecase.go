package usecase

import (
	"context"

	"github.com/tripfund/tripfund/internal/domain"
	"github.com/tripfund/tripfund/internal/infrastructure/metrics"
	"github.com/tripfund/tripfund/internal/money"
)

// ResolveSettlement derives the hub-and-spoke transfer set that zeroes
// every non-administrator balance against the administrator. For each
// member whose |balance| exceeds the rounding tolerance it creates
// exactly one transfer to or from the admin, and records the edge
// symmetrically in both members' OwesTo/OwedBy lists.
//
// The administrator's own residual balance reflects fund surplus or
// deficit; it is informational and produces no self-transfer. A snapshot
// without an administrator fails with ErrNoAdministrator: every trip is
// created with one, so absence is a modeling bug upstream, never
// defaulted here.
func ResolveSettlement(balances []*domain.BalanceRecord) ([]domain.Settlement, error) {
	admin, err := administratorRecord(balances)
	if err != nil {
		return nil, err
	}

	adminParty := domain.SettlementParty{MemberID: admin.MemberID, DisplayName: admin.DisplayName}
	settlements := make([]domain.Settlement, 0, len(balances))

	for _, r := range balances {
		if r.MemberID == admin.MemberID {
			continue
		}
		if money.IsNegligible(r.Balance) {
			continue
		}

		party := domain.SettlementParty{MemberID: r.MemberID, DisplayName: r.DisplayName}

		if r.Balance.IsPositive() {
			// Fund owes the member: administrator pays out.
			amount := money.Round2(r.Balance)
			settlements = append(settlements, domain.Settlement{From: adminParty, To: party, Amount: amount})
			admin.OwesTo = append(admin.OwesTo, domain.DebtEdge{MemberID: r.MemberID, DisplayName: r.DisplayName, Amount: amount})
			r.OwedBy = append(r.OwedBy, domain.DebtEdge{MemberID: admin.MemberID, DisplayName: admin.DisplayName, Amount: amount})
		} else {
			// Member owes the fund: pays the administrator.
			amount := money.Round2(r.Balance.Neg())
			settlements = append(settlements, domain.Settlement{From: party, To: adminParty, Amount: amount})
			r.OwesTo = append(r.OwesTo, domain.DebtEdge{MemberID: admin.MemberID, DisplayName: admin.DisplayName, Amount: amount})
			admin.OwedBy = append(admin.OwedBy, domain.DebtEdge{MemberID: r.MemberID, DisplayName: r.DisplayName, Amount: amount})
		}
	}

	return settlements, nil
}

// NetTransfers returns the plain from/to transfer list without recording
// debt edges on the balance records.
func NetTransfers(balances []*domain.BalanceRecord) ([]domain.Settlement, error) {
	admin, err := administratorRecord(balances)
	if err != nil {
		return nil, err
	}

	adminParty := domain.SettlementParty{MemberID: admin.MemberID, DisplayName: admin.DisplayName}
	settlements := make([]domain.Settlement, 0, len(balances))

	for _, r := range balances {
		if r.MemberID == admin.MemberID || money.IsNegligible(r.Balance) {
			continue
		}

		party := domain.SettlementParty{MemberID: r.MemberID, DisplayName: r.DisplayName}
		if r.Balance.IsPositive() {
			settlements = append(settlements, domain.Settlement{From: adminParty, To: party, Amount: money.Round2(r.Balance)})
		} else {
			settlements = append(settlements, domain.Settlement{From: party, To: adminParty, Amount: money.Round2(r.Balance.Neg())})
		}
	}

	return settlements, nil
}

func administratorRecord(balances []*domain.BalanceRecord) (*domain.BalanceRecord, error) {
	var admin *domain.BalanceRecord
	for _, r := range balances {
		if r.Role == domain.RoleAdmin {
			if admin != nil {
				return nil, domain.ErrMultipleAdministrators
			}
			admin = r
		}
	}
	if admin == nil {
		return nil, domain.ErrNoAdministrator
	}
	return admin, nil
}

// SettlementUseCase computes the settlement plan for a trip.
type SettlementUseCase struct {
	snapshots SnapshotRepository
	metrics   *metrics.Metrics
}

// NewSettlementUseCase creates a new SettlementUseCase. metrics may be nil.
func NewSettlementUseCase(snapshots SnapshotRepository, m *metrics.Metrics) *SettlementUseCase {
	return &SettlementUseCase{
		snapshots: snapshots,
		metrics:   m,
	}
}

// SettlementResult bundles the resolved transfers with the balance
// records whose debt edges they populated.
type SettlementResult struct {
	Balances    []*domain.BalanceRecord
	Settlements []domain.Settlement
}

// GetSettlement loads the trip snapshot, computes balances and resolves
// the settlement plan.
func (uc *SettlementUseCase) GetSettlement(ctx context.Context, tripID string) (*SettlementResult, error) {
	snapshot, err := uc.snapshots.Load(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	balances, err := CalculateBalances(snapshot)
	if err != nil {
		return nil, err
	}

	settlements, err := ResolveSettlement(balances)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SettlementResolutions.Inc()
		uc.metrics.SettlementTransfers.Observe(float64(len(settlements)))
	}

	return &SettlementResult{
		Balances:    balances,
		Settlements: settlements,
	}, nil
}
