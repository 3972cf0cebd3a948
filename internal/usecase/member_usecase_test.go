package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tripfund/tripfund/internal/domain"
	"github.com/tripfund/tripfund/internal/usecase"
	"github.com/tripfund/tripfund/internal/usecase/mocks"
)

func TestMemberUseCase_CreateMember(t *testing.T) {
	ctrl := gomock.NewController(t)
	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	tripRepo := mocks.NewMockTripRepository(ctrl)
	memberRepo := mocks.NewMockMemberRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	cache := mocks.NewMockCache(ctrl)

	tripRepo.EXPECT().GetByID(gomock.Any(), "trip-1").Return(&domain.Trip{ID: "trip-1"}, nil)
	idGen.EXPECT().Generate().Return("m-new")
	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	memberRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)
	cache.EXPECT().Delete(gomock.Any(), usecase.StatisticsCacheKey("trip-1")).Return(nil)

	uc := usecase.NewMemberUseCase(txManager, tripRepo, memberRepo, nil, idGen, cache)

	member, err := uc.CreateMember(context.Background(), usecase.CreateMemberInput{
		TripID:       "trip-1",
		DisplayName:  "Bob",
		Role:         domain.RoleMember,
		Contribution: dec(t, "500"),
	})
	require.NoError(t, err)
	require.Equal(t, "m-new", member.ID)
	require.True(t, member.IsActive)
}

func TestMemberUseCase_CreateMember_Validation(t *testing.T) {
	uc := usecase.NewMemberUseCase(nil, nil, nil, nil, nil, nil)

	tests := []struct {
		name  string
		input usecase.CreateMemberInput
		want  error
	}{
		{
			"empty display name",
			usecase.CreateMemberInput{TripID: "trip-1", DisplayName: "", Role: domain.RoleMember},
			domain.ErrInvalidDisplayName,
		},
		{
			"display name too long",
			usecase.CreateMemberInput{TripID: "trip-1", DisplayName: strings.Repeat("x", 256), Role: domain.RoleMember},
			domain.ErrInvalidDisplayName,
		},
		{
			"invalid role",
			usecase.CreateMemberInput{TripID: "trip-1", DisplayName: "Bob", Role: domain.Role("owner")},
			domain.ErrInvalidRole,
		},
		{
			"negative contribution",
			usecase.CreateMemberInput{TripID: "trip-1", DisplayName: "Bob", Role: domain.RoleMember, Contribution: dec(t, "-1")},
			domain.ErrNegativeContribution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateMember(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMemberUseCase_CreateMember_SecondAdminRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	tripRepo := mocks.NewMockTripRepository(ctrl)
	memberRepo := mocks.NewMockMemberRepository(ctrl)

	tripRepo.EXPECT().GetByID(gomock.Any(), "trip-1").Return(&domain.Trip{ID: "trip-1"}, nil)
	memberRepo.EXPECT().ListByTrip(gomock.Any(), "trip-1", true).Return([]*domain.Member{
		{ID: "m-admin", Role: domain.RoleAdmin, IsActive: true},
	}, nil)

	uc := usecase.NewMemberUseCase(nil, tripRepo, memberRepo, nil, nil, nil)

	_, err := uc.CreateMember(context.Background(), usecase.CreateMemberInput{
		TripID:      "trip-1",
		DisplayName: "Second Admin",
		Role:        domain.RoleAdmin,
	})
	require.ErrorIs(t, err, usecase.ErrAdminAlreadyExists)
}

func TestMemberUseCase_BatchUpdateContributions(t *testing.T) {
	ctrl := gomock.NewController(t)
	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	memberRepo := mocks.NewMockMemberRepository(ctrl)
	retrier := mocks.NewMockRetrier(ctrl)
	cache := mocks.NewMockCache(ctrl)

	memberRepo.EXPECT().ListByTrip(gomock.Any(), "trip-1", true).Return([]*domain.Member{
		{ID: "m-admin", IsActive: true},
		{ID: "m-bob", IsActive: true},
	}, nil)
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, op func() error) error { return op() },
	)
	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	memberRepo.EXPECT().UpdateContribution(gomock.Any(), tx, "m-admin", gomock.Any(), gomock.Any()).Return(nil)
	memberRepo.EXPECT().UpdateContribution(gomock.Any(), tx, "m-bob", gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)
	cache.EXPECT().Delete(gomock.Any(), usecase.StatisticsCacheKey("trip-1")).Return(nil)

	uc := usecase.NewMemberUseCase(txManager, nil, memberRepo, retrier, nil, cache)

	err := uc.BatchUpdateContributions(context.Background(), "trip-1", []domain.ContributionUpdate{
		{MemberID: "m-admin", Contribution: dec(t, "1200")},
		{MemberID: "m-bob", Contribution: dec(t, "600")},
	})
	require.NoError(t, err)
}

func TestMemberUseCase_BatchUpdateContributions_UnknownMember(t *testing.T) {
	ctrl := gomock.NewController(t)
	memberRepo := mocks.NewMockMemberRepository(ctrl)
	memberRepo.EXPECT().ListByTrip(gomock.Any(), "trip-1", true).Return([]*domain.Member{
		{ID: "m-admin", IsActive: true},
	}, nil)

	uc := usecase.NewMemberUseCase(nil, nil, memberRepo, nil, nil, nil)

	err := uc.BatchUpdateContributions(context.Background(), "trip-1", []domain.ContributionUpdate{
		{MemberID: "m-admin", Contribution: dec(t, "1200")},
		{MemberID: "m-ghost", Contribution: dec(t, "600")},
	})
	require.ErrorIs(t, err, domain.ErrMemberNotFound)
}

// A failing update inside the batch must surface the error without
// committing; the deferred rollback undoes the partial work.
func TestMemberUseCase_BatchUpdateContributions_AllOrNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	memberRepo := mocks.NewMockMemberRepository(ctrl)

	updateErr := errors.New("serialization failure")

	memberRepo.EXPECT().ListByTrip(gomock.Any(), "trip-1", true).Return([]*domain.Member{
		{ID: "m-admin", IsActive: true},
		{ID: "m-bob", IsActive: true},
	}, nil)
	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	memberRepo.EXPECT().UpdateContribution(gomock.Any(), tx, "m-admin", gomock.Any(), gomock.Any()).Return(nil)
	memberRepo.EXPECT().UpdateContribution(gomock.Any(), tx, "m-bob", gomock.Any(), gomock.Any()).Return(updateErr)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uc := usecase.NewMemberUseCase(txManager, nil, memberRepo, nil, nil, nil)

	err := uc.BatchUpdateContributions(context.Background(), "trip-1", []domain.ContributionUpdate{
		{MemberID: "m-admin", Contribution: dec(t, "1200")},
		{MemberID: "m-bob", Contribution: dec(t, "600")},
	})
	require.ErrorIs(t, err, updateErr)
}

func TestMemberUseCase_UpdateContribution(t *testing.T) {
	ctrl := gomock.NewController(t)
	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	memberRepo := mocks.NewMockMemberRepository(ctrl)

	memberRepo.EXPECT().GetByID(gomock.Any(), "m-bob").Return(&domain.Member{ID: "m-bob", TripID: "trip-1"}, nil)
	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	memberRepo.EXPECT().UpdateContribution(gomock.Any(), tx, "m-bob", gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uc := usecase.NewMemberUseCase(txManager, nil, memberRepo, nil, nil, nil)

	member, err := uc.UpdateContribution(context.Background(), "m-bob", dec(t, "750"))
	require.NoError(t, err)
	require.True(t, member.Contribution.Equal(dec(t, "750")))
}
