package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tripfund/tripfund/internal/domain"
	"github.com/tripfund/tripfund/internal/usecase"
	"github.com/tripfund/tripfund/internal/usecase/mocks"
)

func TestResolveSettlement_HubAndSpoke(t *testing.T) {
	snapshot := tripSnapshot(t)
	balances, err := usecase.CalculateBalances(snapshot)
	require.NoError(t, err)

	settlements, err := usecase.ResolveSettlement(balances)
	require.NoError(t, err)
	require.Len(t, settlements, 2)

	// Both members are owed 300 by the administrator; every transfer has
	// the admin on exactly one side.
	for _, s := range settlements {
		require.Equal(t, "m-admin", s.From.MemberID)
		require.True(t, s.Amount.Equal(dec(t, "300.00")), "amount = %s", s.Amount)
	}
	require.ElementsMatch(t,
		[]string{"m-bob", "m-vera"},
		[]string{settlements[0].To.MemberID, settlements[1].To.MemberID},
	)
}

func TestResolveSettlement_MemberOwesFund(t *testing.T) {
	balances := []*domain.BalanceRecord{
		{MemberID: "m-admin", DisplayName: "Alice", Role: domain.RoleAdmin, Balance: dec(t, "150")},
		{MemberID: "m-bob", DisplayName: "Bob", Role: domain.RoleMember, Balance: dec(t, "-150")},
	}

	settlements, err := usecase.ResolveSettlement(balances)
	require.NoError(t, err)
	require.Len(t, settlements, 1)

	require.Equal(t, "m-bob", settlements[0].From.MemberID)
	require.Equal(t, "m-admin", settlements[0].To.MemberID)
	require.True(t, settlements[0].Amount.Equal(dec(t, "150.00")))
}

func TestResolveSettlement_RecordsDebtEdges(t *testing.T) {
	balances := []*domain.BalanceRecord{
		{MemberID: "m-admin", DisplayName: "Alice", Role: domain.RoleAdmin, Balance: dec(t, "-100")},
		{MemberID: "m-bob", DisplayName: "Bob", Role: domain.RoleMember, Balance: dec(t, "100")},
	}

	_, err := usecase.ResolveSettlement(balances)
	require.NoError(t, err)

	admin, bob := balances[0], balances[1]
	require.Len(t, admin.OwesTo, 1)
	require.Equal(t, "m-bob", admin.OwesTo[0].MemberID)
	require.Len(t, bob.OwedBy, 1)
	require.Equal(t, "m-admin", bob.OwedBy[0].MemberID)
	require.True(t, bob.OwedBy[0].Amount.Equal(admin.OwesTo[0].Amount))
}

func TestResolveSettlement_NegligibleBalancesSkipped(t *testing.T) {
	balances := []*domain.BalanceRecord{
		{MemberID: "m-admin", Role: domain.RoleAdmin, Balance: dec(t, "0.005")},
		{MemberID: "m-bob", Role: domain.RoleMember, Balance: dec(t, "0.009")},
		{MemberID: "m-vera", Role: domain.RoleMember, Balance: dec(t, "-0.009")},
	}

	settlements, err := usecase.ResolveSettlement(balances)
	require.NoError(t, err)
	require.Empty(t, settlements)
}

func TestResolveSettlement_NoAdministrator(t *testing.T) {
	balances := []*domain.BalanceRecord{
		{MemberID: "m-bob", Role: domain.RoleMember, Balance: dec(t, "100")},
	}

	_, err := usecase.ResolveSettlement(balances)
	require.ErrorIs(t, err, domain.ErrNoAdministrator)
}

func TestResolveSettlement_MultipleAdministrators(t *testing.T) {
	balances := []*domain.BalanceRecord{
		{MemberID: "m-a", Role: domain.RoleAdmin},
		{MemberID: "m-b", Role: domain.RoleAdmin},
	}

	_, err := usecase.ResolveSettlement(balances)
	require.ErrorIs(t, err, domain.ErrMultipleAdministrators)
}

func TestNetTransfers_NoEdges(t *testing.T) {
	balances := []*domain.BalanceRecord{
		{MemberID: "m-admin", Role: domain.RoleAdmin, Balance: dec(t, "-50")},
		{MemberID: "m-bob", Role: domain.RoleMember, Balance: dec(t, "50")},
	}

	settlements, err := usecase.NetTransfers(balances)
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	require.Empty(t, balances[0].OwesTo)
	require.Empty(t, balances[1].OwedBy)
}

func TestSettlementUseCase_GetSettlement(t *testing.T) {
	ctrl := gomock.NewController(t)
	snapshots := mocks.NewMockSnapshotRepository(ctrl)
	snapshots.EXPECT().Load(gomock.Any(), "trip-1").Return(tripSnapshot(t), nil)

	uc := usecase.NewSettlementUseCase(snapshots, nil)

	result, err := uc.GetSettlement(context.Background(), "trip-1")
	require.NoError(t, err)
	require.Len(t, result.Balances, 3)
	require.Len(t, result.Settlements, 2)
}
