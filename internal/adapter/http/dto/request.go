package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tripfund/tripfund/internal/domain"
	"github.com/tripfund/tripfund/internal/usecase"
)

// CreateTripRequest represents a request to create a trip with its
// administrator.
type CreateTripRequest struct {
	Name              string          `json:"name"`
	Currency          string          `json:"currency"`
	AdminDisplayName  string          `json:"admin_display_name"`
	AdminContribution decimal.Decimal `json:"admin_contribution"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTripRequest) ToUseCaseInput() usecase.CreateTripInput {
	return usecase.CreateTripInput{
		Name:              r.Name,
		Currency:          r.Currency,
		AdminDisplayName:  r.AdminDisplayName,
		AdminContribution: r.AdminContribution,
	}
}

// CreateMemberRequest represents a request to add a member to a trip.
type CreateMemberRequest struct {
	DisplayName  string          `json:"display_name"`
	Role         string          `json:"role"`
	IsVirtual    bool            `json:"is_virtual"`
	Contribution decimal.Decimal `json:"contribution"`
}

// ToUseCaseInput converts to use case input. A missing role defaults to
// the plain member role.
func (r *CreateMemberRequest) ToUseCaseInput(tripID string) usecase.CreateMemberInput {
	role := domain.Role(r.Role)
	if r.Role == "" {
		role = domain.RoleMember
	}

	return usecase.CreateMemberInput{
		TripID:       tripID,
		DisplayName:  r.DisplayName,
		Role:         role,
		IsVirtual:    r.IsVirtual,
		Contribution: r.Contribution,
	}
}

// UpdateContributionRequest sets one member's contribution.
type UpdateContributionRequest struct {
	Contribution decimal.Decimal `json:"contribution"`
}

// BatchContributionsRequest applies several contribution updates
// atomically.
type BatchContributionsRequest struct {
	Updates []ContributionItem `json:"updates"`
}

// ContributionItem is one row of a batch contribution update.
type ContributionItem struct {
	MemberID     string          `json:"member_id"`
	Contribution decimal.Decimal `json:"contribution"`
}

// ToDomain converts to domain updates.
func (r *BatchContributionsRequest) ToDomain() []domain.ContributionUpdate {
	updates := make([]domain.ContributionUpdate, len(r.Updates))
	for i, u := range r.Updates {
		updates[i] = domain.ContributionUpdate{
			MemberID:     u.MemberID,
			Contribution: u.Contribution,
		}
	}
	return updates
}

// CreatePaymentRequest represents a request to record a payment.
// Exactly one of shares / equal_split_member_ids must be set.
type CreatePaymentRequest struct {
	PayerMemberID       string          `json:"payer_member_id"`
	Amount              decimal.Decimal `json:"amount"`
	PaidFromFund        bool            `json:"paid_from_fund"`
	ExpenseDate         *time.Time      `json:"expense_date,omitempty"`
	CategoryID          string          `json:"category_id,omitempty"`
	Description         string          `json:"description,omitempty"`
	Shares              []ShareItem     `json:"shares,omitempty"`
	EqualSplitMemberIDs []string        `json:"equal_split_member_ids,omitempty"`
}

// ShareItem is one share row of a payment request. Amount and percentage
// are mutually exclusive.
type ShareItem struct {
	MemberID   string           `json:"member_id"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePaymentRequest) ToUseCaseInput(tripID string) usecase.CreatePaymentInput {
	input := usecase.CreatePaymentInput{
		TripID:              tripID,
		PayerMemberID:       r.PayerMemberID,
		Amount:              r.Amount,
		PaidFromFund:        r.PaidFromFund,
		CategoryID:          r.CategoryID,
		Description:         r.Description,
		EqualSplitMemberIDs: r.EqualSplitMemberIDs,
	}
	if r.ExpenseDate != nil {
		input.ExpenseDate = *r.ExpenseDate
	}
	for _, s := range r.Shares {
		input.Shares = append(input.Shares, usecase.ShareInput{
			MemberID:   s.MemberID,
			Amount:     s.Amount,
			Percentage: s.Percentage,
		})
	}
	return input
}
