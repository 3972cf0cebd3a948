package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tripfund/tripfund/internal/domain"
	"github.com/tripfund/tripfund/internal/money"
	"github.com/tripfund/tripfund/internal/usecase"
	"github.com/tripfund/tripfund/internal/usecase/mocks"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func decPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d := dec(t, s)
	return &d
}

// tripSnapshot builds the canonical three-member trip: the administrator
// contributed 1000, two members 500 each, and the administrator paid a
// 600 dinner out of pocket split equally three ways.
func tripSnapshot(t *testing.T) *domain.Snapshot {
	t.Helper()
	date := time.Date(2026, 7, 14, 20, 30, 0, 0, time.UTC)
	return &domain.Snapshot{
		TripID: "trip-1",
		Members: []*domain.Member{
			{ID: "m-admin", TripID: "trip-1", DisplayName: "Alice", Role: domain.RoleAdmin, Contribution: dec(t, "1000"), IsActive: true},
			{ID: "m-bob", TripID: "trip-1", DisplayName: "Bob", Role: domain.RoleMember, Contribution: dec(t, "500"), IsActive: true},
			{ID: "m-vera", TripID: "trip-1", DisplayName: "Vera", Role: domain.RoleMember, Contribution: dec(t, "500"), IsActive: true},
		},
		Payments: []*domain.ExpensePayment{
			{ID: "p-1", TripID: "trip-1", PayerMemberID: "m-admin", Amount: dec(t, "600"), PaidFromFund: false, ExpenseDate: date, CategoryID: "food"},
		},
		Shares: []*domain.ExpenseShare{
			{PaymentID: "p-1", MemberID: "m-admin", ShareAmount: decPtr(t, "200")},
			{PaymentID: "p-1", MemberID: "m-bob", ShareAmount: decPtr(t, "200")},
			{PaymentID: "p-1", MemberID: "m-vera", ShareAmount: decPtr(t, "200")},
		},
	}
}

func TestCalculateBalances(t *testing.T) {
	snapshot := tripSnapshot(t)

	records, err := usecase.CalculateBalances(snapshot)
	require.NoError(t, err)
	require.Len(t, records, 3)

	byID := make(map[string]*domain.BalanceRecord)
	for _, r := range records {
		byID[r.MemberID] = r
	}

	admin := byID["m-admin"]
	require.True(t, admin.TotalPaid.Equal(dec(t, "600")), "admin TotalPaid = %s", admin.TotalPaid)
	require.True(t, admin.TotalShare.Equal(dec(t, "200")), "admin TotalShare = %s", admin.TotalShare)
	require.True(t, admin.Balance.Equal(dec(t, "1400")), "admin Balance = %s", admin.Balance)

	for _, id := range []string{"m-bob", "m-vera"} {
		r := byID[id]
		require.True(t, r.TotalPaid.IsZero(), "%s TotalPaid = %s", id, r.TotalPaid)
		require.True(t, r.TotalShare.Equal(dec(t, "200")), "%s TotalShare = %s", id, r.TotalShare)
		require.True(t, r.Balance.Equal(dec(t, "300")), "%s Balance = %s", id, r.Balance)
	}
}

// Balances sum to contributions plus out-of-pocket payments minus shares.
// With shares covering every payment, the sum equals total contributions.
func TestCalculateBalances_Conservation(t *testing.T) {
	snapshot := tripSnapshot(t)

	records, err := usecase.CalculateBalances(snapshot)
	require.NoError(t, err)

	total := usecase.TotalBalance(records)
	require.True(t, total.Equal(dec(t, "2000")), "total balance = %s, want 2000", total)
}

// The calculator is a pure function of the snapshot: running it twice
// yields identical results and the snapshot itself is never mutated.
func TestCalculateBalances_Idempotent(t *testing.T) {
	snapshot := tripSnapshot(t)

	first, err := usecase.CalculateBalances(snapshot)
	require.NoError(t, err)
	second, err := usecase.CalculateBalances(snapshot)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		require.Equal(t, first[i].MemberID, second[i].MemberID)
		require.True(t, first[i].Balance.Equal(second[i].Balance))
	}

	require.True(t, snapshot.Members[0].Contribution.Equal(dec(t, "1000")), "input snapshot mutated")
}

func TestCalculateBalances_FundPaymentDoesNotCreditPayer(t *testing.T) {
	snapshot := tripSnapshot(t)
	snapshot.Payments[0].PaidFromFund = true

	records, err := usecase.CalculateBalances(snapshot)
	require.NoError(t, err)

	for _, r := range records {
		require.True(t, r.TotalPaid.IsZero(), "%s TotalPaid = %s", r.MemberID, r.TotalPaid)
	}
}

func TestCalculateBalances_PercentageShares(t *testing.T) {
	snapshot := tripSnapshot(t)
	snapshot.Payments[0].Amount = dec(t, "1000")
	snapshot.Shares = []*domain.ExpenseShare{
		{PaymentID: "p-1", MemberID: "m-admin", SharePercentage: decPtr(t, "33.33")},
		{PaymentID: "p-1", MemberID: "m-bob", SharePercentage: decPtr(t, "33.33")},
		{PaymentID: "p-1", MemberID: "m-vera", SharePercentage: decPtr(t, "33.34")},
	}

	records, err := usecase.CalculateBalances(snapshot)
	require.NoError(t, err)

	byID := make(map[string]*domain.BalanceRecord)
	for _, r := range records {
		byID[r.MemberID] = r
	}
	require.True(t, byID["m-admin"].TotalShare.Equal(dec(t, "333.30")))
	require.True(t, byID["m-vera"].TotalShare.Equal(dec(t, "333.40")))

	shareSum := money.Sum(byID["m-admin"].TotalShare, byID["m-bob"].TotalShare, byID["m-vera"].TotalShare)
	require.True(t, shareSum.Equal(dec(t, "1000")), "shares sum = %s", shareSum)
}

func TestBalanceUseCase_GetBalances(t *testing.T) {
	ctrl := gomock.NewController(t)
	snapshots := mocks.NewMockSnapshotRepository(ctrl)
	snapshots.EXPECT().Load(gomock.Any(), "trip-1").Return(tripSnapshot(t), nil)

	uc := usecase.NewBalanceUseCase(snapshots, nil)

	records, err := uc.GetBalances(context.Background(), "trip-1")
	require.NoError(t, err)
	require.Len(t, records, 3)
}

func TestBalanceUseCase_GetBalances_InvalidSnapshot(t *testing.T) {
	snapshot := tripSnapshot(t)
	snapshot.Shares = snapshot.Shares[:2] // 400 of 600 covered

	ctrl := gomock.NewController(t)
	snapshots := mocks.NewMockSnapshotRepository(ctrl)
	snapshots.EXPECT().Load(gomock.Any(), "trip-1").Return(snapshot, nil)

	uc := usecase.NewBalanceUseCase(snapshots, nil)

	_, err := uc.GetBalances(context.Background(), "trip-1")
	require.ErrorIs(t, err, domain.ErrShareSumMismatch)
}

func TestBalanceUseCase_GetBalances_LoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	snapshots := mocks.NewMockSnapshotRepository(ctrl)
	snapshots.EXPECT().Load(gomock.Any(), "trip-x").Return(nil, domain.ErrTripNotFound)

	uc := usecase.NewBalanceUseCase(snapshots, nil)

	_, err := uc.GetBalances(context.Background(), "trip-x")
	require.True(t, errors.Is(err, domain.ErrTripNotFound))
}
