package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tripfund/tripfund/internal/domain"
)

// ErrAdminAlreadyExists is returned when a second administrator would be
// created for a trip.
var ErrAdminAlreadyExists = errors.New("trip already has an administrator")

// MemberUseCase handles member business logic.
type MemberUseCase struct {
	txManager  TransactionManager
	tripRepo   TripRepository
	memberRepo MemberRepository
	retrier    Retrier
	idGen      IDGenerator
	cache      Cache
}

// NewMemberUseCase creates a new MemberUseCase. cache may be nil.
func NewMemberUseCase(
	txManager TransactionManager,
	tripRepo TripRepository,
	memberRepo MemberRepository,
	retrier Retrier,
	idGen IDGenerator,
	cache Cache,
) *MemberUseCase {
	return &MemberUseCase{
		txManager:  txManager,
		tripRepo:   tripRepo,
		memberRepo: memberRepo,
		retrier:    retrier,
		idGen:      idGen,
		cache:      cache,
	}
}

// CreateMemberInput represents input for creating a member.
type CreateMemberInput struct {
	TripID       string
	DisplayName  string
	Role         domain.Role
	IsVirtual    bool
	Contribution decimal.Decimal
}

// CreateMember adds a member to a trip. Creating a second administrator
// is rejected: exactly one active admin must hold the fund at any time.
func (uc *MemberUseCase) CreateMember(ctx context.Context, input CreateMemberInput) (*domain.Member, error) {
	if err := domain.ValidateDisplayName(input.DisplayName); err != nil {
		return nil, err
	}
	if !input.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if err := domain.ValidateContribution(input.Contribution); err != nil {
		return nil, err
	}

	if _, err := uc.tripRepo.GetByID(ctx, input.TripID); err != nil {
		return nil, err
	}

	if input.Role == domain.RoleAdmin {
		existing, err := uc.memberRepo.ListByTrip(ctx, input.TripID, true)
		if err != nil {
			return nil, err
		}
		for _, m := range existing {
			if m.IsAdmin() {
				return nil, ErrAdminAlreadyExists
			}
		}
	}

	now := time.Now().UTC()
	member := &domain.Member{
		ID:           uc.idGen.Generate(),
		TripID:       input.TripID,
		DisplayName:  input.DisplayName,
		Role:         input.Role,
		IsVirtual:    input.IsVirtual,
		Contribution: input.Contribution,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.memberRepo.Create(ctx, tx, member); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateStatistics(ctx, input.TripID)

	return member, nil
}

// ListMembers lists the active members of a trip.
func (uc *MemberUseCase) ListMembers(ctx context.Context, tripID string) ([]*domain.Member, error) {
	return uc.memberRepo.ListByTrip(ctx, tripID, true)
}

// UpdateContribution sets one member's contribution.
func (uc *MemberUseCase) UpdateContribution(ctx context.Context, memberID string, contribution decimal.Decimal) (*domain.Member, error) {
	if err := domain.ValidateContribution(contribution); err != nil {
		return nil, err
	}

	member, err := uc.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	if err := uc.memberRepo.UpdateContribution(ctx, tx, memberID, contribution, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	member.Contribution = contribution
	member.UpdatedAt = now

	uc.invalidateStatistics(ctx, member.TripID)

	return member, nil
}

// BatchUpdateContributions applies a set of contribution updates
// atomically: either every member's contribution changes or none does,
// so a partially-applied batch never reaches the balance calculator.
// Transient serialization failures are retried.
func (uc *MemberUseCase) BatchUpdateContributions(ctx context.Context, tripID string, updates []domain.ContributionUpdate) error {
	for _, u := range updates {
		if err := domain.ValidateContribution(u.Contribution); err != nil {
			return err
		}
	}

	members, err := uc.memberRepo.ListByTrip(ctx, tripID, true)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m.ID] = true
	}
	for _, u := range updates {
		if !known[u.MemberID] {
			return domain.ErrMemberNotFound
		}
	}

	apply := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		now := time.Now().UTC()
		for _, u := range updates {
			if err := uc.memberRepo.UpdateContribution(ctx, tx, u.MemberID, u.Contribution, now); err != nil {
				return err
			}
		}

		return tx.Commit(ctx)
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, apply)
	} else {
		err = apply()
	}
	if err != nil {
		return err
	}

	uc.invalidateStatistics(ctx, tripID)

	return nil
}

func (uc *MemberUseCase) invalidateStatistics(ctx context.Context, tripID string) {
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, StatisticsCacheKey(tripID))
	}
}
