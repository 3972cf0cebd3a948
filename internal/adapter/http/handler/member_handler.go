package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tripfund/tripfund/internal/adapter/http/dto"
	"github.com/tripfund/tripfund/internal/domain"
	"github.com/tripfund/tripfund/internal/usecase"
)

// MemberService defines the behavior needed by MemberHandler.
type MemberService interface {
	CreateMember(ctx context.Context, input usecase.CreateMemberInput) (*domain.Member, error)
	ListMembers(ctx context.Context, tripID string) ([]*domain.Member, error)
	UpdateContribution(ctx context.Context, memberID string, contribution decimal.Decimal) (*domain.Member, error)
	BatchUpdateContributions(ctx context.Context, tripID string, updates []domain.ContributionUpdate) error
}

// MemberHandler handles member-related HTTP requests.
type MemberHandler struct {
	memberUC MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberUC MemberService) *MemberHandler {
	return &MemberHandler{memberUC: memberUC}
}

// Create adds a member to a trip.
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	var req dto.CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	member, err := h.memberUC.CreateMember(r.Context(), req.ToUseCaseInput(tripID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create member", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.MemberFromDomain(member))
}

// List lists a trip's active members.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	members, err := h.memberUC.ListMembers(r.Context(), tripID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list members", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListMembersResponse{
		Members: dto.MembersFromDomain(members),
		Total:   len(members),
	})
}

// UpdateContribution sets one member's contribution.
func (h *MemberHandler) UpdateContribution(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberID")

	var req dto.UpdateContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	member, err := h.memberUC.UpdateContribution(r.Context(), memberID, req.Contribution)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update contribution", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MemberFromDomain(member))
}

// BatchContributions applies several contribution updates atomically.
func (h *MemberHandler) BatchContributions(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	var req dto.BatchContributionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if len(req.Updates) == 0 {
		writeError(w, http.StatusBadRequest, "empty update batch", "")
		return
	}

	if err := h.memberUC.BatchUpdateContributions(r.Context(), tripID, req.ToDomain()); err != nil {
		writeError(w, mapDomainError(err), "failed to update contributions", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
