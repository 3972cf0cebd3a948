package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripfund/tripfund/internal/adapter/http/dto"
	"github.com/tripfund/tripfund/internal/domain"
)

// StatisticsService defines the behavior needed by StatisticsHandler.
type StatisticsService interface {
	GetStatistics(ctx context.Context, tripID string) (*domain.TripStatistics, error)
}

// StatisticsHandler serves the trip statistics report.
type StatisticsHandler struct {
	statisticsUC StatisticsService
}

// NewStatisticsHandler creates a new StatisticsHandler.
func NewStatisticsHandler(statisticsUC StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsUC: statisticsUC}
}

// Get computes and returns the trip's statistics.
func (h *StatisticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	stats, err := h.statisticsUC.GetStatistics(r.Context(), tripID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute statistics", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StatisticsFromDomain(stats))
}
