package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tripfund/tripfund/internal/domain"
	"github.com/tripfund/tripfund/internal/money"
)

var (
	// ErrNoSplit is returned when a payment carries neither explicit
	// shares nor an equal-split member list. The engine never guesses a
	// split; the caller must state one.
	ErrNoSplit = errors.New("payment requires explicit shares or an equal split")
	// ErrAmbiguousSplit is returned when both explicit shares and an
	// equal-split list are provided.
	ErrAmbiguousSplit = errors.New("provide either explicit shares or an equal split, not both")
)

// PaymentUseCase handles expense payment business logic. Materializing
// an equal split into explicit share rows happens here, at the caller
// layer, so the balance calculator never has to guess a missing split.
type PaymentUseCase struct {
	txManager   TransactionManager
	memberRepo  MemberRepository
	paymentRepo PaymentRepository
	idGen       IDGenerator
	cache       Cache
}

// NewPaymentUseCase creates a new PaymentUseCase. cache may be nil.
func NewPaymentUseCase(
	txManager TransactionManager,
	memberRepo MemberRepository,
	paymentRepo PaymentRepository,
	idGen IDGenerator,
	cache Cache,
) *PaymentUseCase {
	return &PaymentUseCase{
		txManager:   txManager,
		memberRepo:  memberRepo,
		paymentRepo: paymentRepo,
		idGen:       idGen,
		cache:       cache,
	}
}

// ShareInput is one share row of a payment being created.
type ShareInput struct {
	MemberID   string
	Amount     *decimal.Decimal
	Percentage *decimal.Decimal
}

// CreatePaymentInput represents input for creating a payment. Exactly
// one of Shares / EqualSplitMemberIDs must be provided.
type CreatePaymentInput struct {
	TripID              string
	PayerMemberID       string
	Amount              decimal.Decimal
	PaidFromFund        bool
	ExpenseDate         time.Time
	CategoryID          string
	Description         string
	Shares              []ShareInput
	EqualSplitMemberIDs []string
}

// CreatePayment records a payment with its complete share set
// atomically.
func (uc *PaymentUseCase) CreatePayment(ctx context.Context, input CreatePaymentInput) (*domain.ExpensePayment, []*domain.ExpenseShare, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, domain.ErrNonPositiveAmount
	}

	switch {
	case len(input.Shares) == 0 && len(input.EqualSplitMemberIDs) == 0:
		return nil, nil, ErrNoSplit
	case len(input.Shares) > 0 && len(input.EqualSplitMemberIDs) > 0:
		return nil, nil, ErrAmbiguousSplit
	}

	members, err := uc.memberRepo.ListByTrip(ctx, input.TripID, true)
	if err != nil {
		return nil, nil, err
	}
	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m.ID] = true
	}
	if !known[input.PayerMemberID] {
		return nil, nil, fmt.Errorf("%w: payer %s", domain.ErrMemberNotFound, input.PayerMemberID)
	}

	expenseDate := input.ExpenseDate
	if expenseDate.IsZero() {
		expenseDate = time.Now().UTC()
	}

	payment := &domain.ExpensePayment{
		ID:            uc.idGen.Generate(),
		TripID:        input.TripID,
		PayerMemberID: input.PayerMemberID,
		Amount:        input.Amount,
		PaidFromFund:  input.PaidFromFund,
		ExpenseDate:   expenseDate,
		CategoryID:    input.CategoryID,
		Description:   input.Description,
		CreatedAt:     time.Now().UTC(),
	}

	var shares []*domain.ExpenseShare
	if len(input.EqualSplitMemberIDs) > 0 {
		shares, err = EqualShares(payment.ID, input.Amount, input.EqualSplitMemberIDs)
		if err != nil {
			return nil, nil, err
		}
	} else {
		shares = make([]*domain.ExpenseShare, len(input.Shares))
		for i, si := range input.Shares {
			shares[i] = &domain.ExpenseShare{
				PaymentID:       payment.ID,
				MemberID:        si.MemberID,
				ShareAmount:     si.Amount,
				SharePercentage: si.Percentage,
			}
		}
	}

	if err := validateShareSet(payment, shares, known); err != nil {
		return nil, nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.paymentRepo.Create(ctx, tx, payment, shares); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, StatisticsCacheKey(input.TripID))
	}

	return payment, shares, nil
}

// GetPayment retrieves a payment by ID.
func (uc *PaymentUseCase) GetPayment(ctx context.Context, id string) (*domain.ExpensePayment, error) {
	return uc.paymentRepo.GetByID(ctx, id)
}

// ListPayments lists a trip's payments with pagination.
func (uc *PaymentUseCase) ListPayments(ctx context.Context, tripID string, limit, offset int) ([]*domain.ExpensePayment, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.paymentRepo.ListByTrip(ctx, tripID, limit, offset)
}

// EqualShares materializes an equal split of amount across memberIDs
// into explicit absolute shares. Each member owes round2(amount / n);
// the last member absorbs the rounding remainder so the shares sum back
// to the payment amount exactly.
func EqualShares(paymentID string, amount decimal.Decimal, memberIDs []string) ([]*domain.ExpenseShare, error) {
	if len(memberIDs) == 0 {
		return nil, ErrNoSplit
	}

	n := decimal.NewFromInt(int64(len(memberIDs)))
	perHead, err := money.Div(amount, n)
	if err != nil {
		return nil, err
	}
	perHead = money.Round2(perHead)

	shares := make([]*domain.ExpenseShare, len(memberIDs))
	allocated := decimal.Zero
	for i, id := range memberIDs {
		share := perHead
		if i == len(memberIDs)-1 {
			share = amount.Sub(allocated)
		}
		allocated = allocated.Add(share)

		s := share
		shares[i] = &domain.ExpenseShare{
			PaymentID:   paymentID,
			MemberID:    id,
			ShareAmount: &s,
		}
	}

	return shares, nil
}

// validateShareSet rejects malformed share sets before they are stored:
// unknown members, duplicated members, invalid fields, or resolved
// amounts that do not cover the payment within tolerance.
func validateShareSet(payment *domain.ExpensePayment, shares []*domain.ExpenseShare, knownMembers map[string]bool) error {
	if len(shares) == 0 {
		return domain.ErrMissingShares
	}

	seen := make(map[string]bool, len(shares))
	sum := decimal.Zero
	for _, sh := range shares {
		if !knownMembers[sh.MemberID] {
			return fmt.Errorf("%w: payment %s member %s", domain.ErrUnknownMember, payment.ID, sh.MemberID)
		}
		if seen[sh.MemberID] {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateMember, sh.MemberID)
		}
		seen[sh.MemberID] = true

		if err := domain.ValidateShare(sh); err != nil {
			return err
		}

		resolved, err := sh.Resolve(payment.Amount)
		if err != nil {
			return err
		}
		sum = sum.Add(resolved)
	}

	if !money.EqualWithinTolerance(sum, payment.Amount, money.Tolerance) {
		return fmt.Errorf("%w: payment %s amount %s, shares %s",
			domain.ErrShareSumMismatch, payment.ID, money.Format(payment.Amount), money.Format(sum))
	}

	return nil
}
