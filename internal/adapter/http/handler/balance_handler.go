package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripfund/tripfund/internal/adapter/http/dto"
	"github.com/tripfund/tripfund/internal/domain"
	"github.com/tripfund/tripfund/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	GetBalances(ctx context.Context, tripID string) ([]*domain.BalanceRecord, error)
}

// SettlementService defines the behavior needed by SettlementHandler.
type SettlementService interface {
	GetSettlement(ctx context.Context, tripID string) (*usecase.SettlementResult, error)
}

// BalanceHandler serves the per-member balance report.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Get computes and returns the trip's balances.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	records, err := h.balanceUC.GetBalances(r.Context(), tripID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListBalancesResponse{
		Balances: dto.BalancesFromDomain(records),
	})
}

// SettlementHandler serves the hub-and-spoke settlement plan.
type SettlementHandler struct {
	settlementUC SettlementService
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC}
}

// Get resolves and returns the trip's settlement plan.
func (h *SettlementHandler) Get(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	result, err := h.settlementUC.GetSettlement(r.Context(), tripID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve settlement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementFromDomain(result))
}
