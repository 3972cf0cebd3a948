package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/tripfund/tripfund/internal/adapter/http/dto"
	"github.com/tripfund/tripfund/internal/domain"
	"github.com/tripfund/tripfund/internal/usecase"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes. Validation
// failures on stored data (a trip with no administrator, shares that no
// longer sum up) are conflicts: the request was fine, the ledger is not.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTripNotFound),
		errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoAdministrator),
		errors.Is(err, domain.ErrMultipleAdministrators),
		errors.Is(err, domain.ErrMissingShares),
		errors.Is(err, domain.ErrShareSumMismatch),
		errors.Is(err, usecase.ErrAdminAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, domain.ErrNegativeContribution),
		errors.Is(err, domain.ErrInvalidDisplayName),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrShareFieldsExclusive),
		errors.Is(err, domain.ErrPercentageOutOfRange),
		errors.Is(err, domain.ErrUnknownMember),
		errors.Is(err, domain.ErrDuplicateMember),
		errors.Is(err, usecase.ErrNoSplit),
		errors.Is(err, usecase.ErrAmbiguousSplit):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
