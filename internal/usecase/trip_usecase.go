package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tripfund/tripfund/internal/domain"
)

// TripUseCase handles trip lifecycle. A trip is always created together
// with its administrator so the settlement hub exists from the first
// computation on.
type TripUseCase struct {
	txManager  TransactionManager
	tripRepo   TripRepository
	memberRepo MemberRepository
	idGen      IDGenerator
}

// NewTripUseCase creates a new TripUseCase.
func NewTripUseCase(
	txManager TransactionManager,
	tripRepo TripRepository,
	memberRepo MemberRepository,
	idGen IDGenerator,
) *TripUseCase {
	return &TripUseCase{
		txManager:  txManager,
		tripRepo:   tripRepo,
		memberRepo: memberRepo,
		idGen:      idGen,
	}
}

// CreateTripInput represents input for creating a trip.
type CreateTripInput struct {
	Name              string
	Currency          string
	AdminDisplayName  string
	AdminContribution decimal.Decimal
}

// CreateTrip creates a trip and its administrator atomically.
func (uc *TripUseCase) CreateTrip(ctx context.Context, input CreateTripInput) (*domain.Trip, *domain.Member, error) {
	if err := domain.ValidateDisplayName(input.AdminDisplayName); err != nil {
		return nil, nil, err
	}
	if err := domain.ValidateContribution(input.AdminContribution); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()

	trip := &domain.Trip{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Currency:  input.Currency,
		CreatedAt: now,
	}

	admin := &domain.Member{
		ID:           uc.idGen.Generate(),
		TripID:       trip.ID,
		DisplayName:  input.AdminDisplayName,
		Role:         domain.RoleAdmin,
		Contribution: input.AdminContribution,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.tripRepo.Create(ctx, tx, trip); err != nil {
		return nil, nil, err
	}
	if err := uc.memberRepo.Create(ctx, tx, admin); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return trip, admin, nil
}

// GetTrip retrieves a trip by ID.
func (uc *TripUseCase) GetTrip(ctx context.Context, id string) (*domain.Trip, error) {
	return uc.tripRepo.GetByID(ctx, id)
}
