package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tripfund/tripfund/internal/domain"
	"github.com/tripfund/tripfund/internal/infrastructure/metrics"
	"github.com/tripfund/tripfund/internal/money"
)

// CalculateBalances computes one BalanceRecord per snapshot member:
// contribution taken verbatim, TotalPaid summed over out-of-pocket
// payments by that member, TotalShare summed over the member's resolved
// shares, Balance = Contribution + TotalPaid - TotalShare.
//
// The function is pure: it holds no state, performs no I/O and never
// mutates its input. It assumes the snapshot passed validation; share
// rows that cannot be resolved surface as errors rather than being
// dropped.
func CalculateBalances(snapshot *domain.Snapshot) ([]*domain.BalanceRecord, error) {
	records := make([]*domain.BalanceRecord, 0, len(snapshot.Members))
	byID := make(map[string]*domain.BalanceRecord, len(snapshot.Members))

	for _, m := range snapshot.Members {
		r := &domain.BalanceRecord{
			MemberID:     m.ID,
			DisplayName:  m.DisplayName,
			Role:         m.Role,
			IsVirtual:    m.IsVirtual,
			Contribution: m.Contribution,
			TotalPaid:    decimal.Zero,
			TotalShare:   decimal.Zero,
		}
		records = append(records, r)
		byID[m.ID] = r
	}

	sharesByPayment := snapshot.SharesByPayment()

	for _, p := range snapshot.Payments {
		if !p.Amount.IsPositive() {
			continue
		}

		// Out-of-pocket payments credit the payer; fund-funded ones
		// already came out of the pooled contributions.
		if !p.PaidFromFund {
			if r, ok := byID[p.PayerMemberID]; ok {
				r.TotalPaid = r.TotalPaid.Add(p.Amount)
			}
		}

		for _, sh := range sharesByPayment[p.ID] {
			resolved, err := sh.Resolve(p.Amount)
			if err != nil {
				return nil, fmt.Errorf("payment %s: %w", p.ID, err)
			}
			if r, ok := byID[sh.MemberID]; ok {
				r.TotalShare = r.TotalShare.Add(resolved)
			}
		}
	}

	for _, r := range records {
		r.Balance = r.Contribution.Add(r.TotalPaid).Sub(r.TotalShare)
	}

	return records, nil
}

// BalanceUseCase loads a trip snapshot and computes member balances.
type BalanceUseCase struct {
	snapshots SnapshotRepository
	metrics   *metrics.Metrics
}

// NewBalanceUseCase creates a new BalanceUseCase. metrics may be nil.
func NewBalanceUseCase(snapshots SnapshotRepository, m *metrics.Metrics) *BalanceUseCase {
	return &BalanceUseCase{
		snapshots: snapshots,
		metrics:   m,
	}
}

// GetBalances loads, validates and computes balances for one trip.
func (uc *BalanceUseCase) GetBalances(ctx context.Context, tripID string) ([]*domain.BalanceRecord, error) {
	snapshot, err := uc.snapshots.Load(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	records, err := CalculateBalances(snapshot)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BalanceComputations.Inc()
	}

	return records, nil
}

// TotalBalance returns the exact decimal sum of all balances, used by
// callers to assert balance conservation.
func TotalBalance(records []*domain.BalanceRecord) decimal.Decimal {
	values := make([]decimal.Decimal, len(records))
	for i, r := range records {
		values[i] = r.Balance
	}
	return money.Sum(values...)
}
