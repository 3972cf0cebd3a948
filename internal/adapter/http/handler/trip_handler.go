package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripfund/tripfund/internal/adapter/http/dto"
	"github.com/tripfund/tripfund/internal/domain"
	"github.com/tripfund/tripfund/internal/usecase"
)

// TripService defines the behavior needed by TripHandler.
type TripService interface {
	CreateTrip(ctx context.Context, input usecase.CreateTripInput) (*domain.Trip, *domain.Member, error)
	GetTrip(ctx context.Context, id string) (*domain.Trip, error)
}

// TripHandler handles trip-related HTTP requests.
type TripHandler struct {
	tripUC TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripUC TripService) *TripHandler {
	return &TripHandler{tripUC: tripUC}
}

// Create creates a new trip with its administrator.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	trip, admin, err := h.tripUC.CreateTrip(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create trip", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreateTripResponse{
		Trip:  dto.TripFromDomain(trip),
		Admin: dto.MemberFromDomain(admin),
	})
}

// Get retrieves a trip by ID.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tripID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing trip ID", "")
		return
	}

	trip, err := h.tripUC.GetTrip(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get trip", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TripFromDomain(trip))
}
