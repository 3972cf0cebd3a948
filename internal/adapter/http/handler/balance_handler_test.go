package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tripfund/tripfund/internal/adapter/http/dto"
	"github.com/tripfund/tripfund/internal/domain"
	"github.com/tripfund/tripfund/internal/usecase"
)

type balanceServiceStub struct {
	getFn func(ctx context.Context, tripID string) ([]*domain.BalanceRecord, error)
}

func (s *balanceServiceStub) GetBalances(ctx context.Context, tripID string) ([]*domain.BalanceRecord, error) {
	return s.getFn(ctx, tripID)
}

type settlementServiceStub struct {
	getFn func(ctx context.Context, tripID string) (*usecase.SettlementResult, error)
}

func (s *settlementServiceStub) GetSettlement(ctx context.Context, tripID string) (*usecase.SettlementResult, error) {
	return s.getFn(ctx, tripID)
}

// requestWithTripID builds a GET request whose chi route context carries
// the given trip ID.
func requestWithTripID(t *testing.T, target, tripID string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("tripID", tripID)

	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestBalanceHandler_Get(t *testing.T) {
	records := []*domain.BalanceRecord{
		{
			MemberID:     "m-admin",
			DisplayName:  "Alice",
			Role:         domain.RoleAdmin,
			Contribution: decimal.RequireFromString("1000"),
			TotalPaid:    decimal.RequireFromString("600"),
			TotalShare:   decimal.RequireFromString("200"),
			Balance:      decimal.RequireFromString("1400"),
		},
	}

	handler := NewBalanceHandler(&balanceServiceStub{
		getFn: func(ctx context.Context, tripID string) ([]*domain.BalanceRecord, error) {
			if tripID != "trip-1" {
				t.Fatalf("unexpected trip ID %s", tripID)
			}
			return records, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Get(rec, requestWithTripID(t, "/trips/trip-1/balances", "trip-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ListBalancesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Balances) != 1 {
		t.Fatalf("expected 1 balance, got %d", len(resp.Balances))
	}
	if resp.Balances[0].Balance != "1400.00" {
		t.Fatalf("expected balance 1400.00, got %s", resp.Balances[0].Balance)
	}
}

func TestBalanceHandler_Get_TripNotFound(t *testing.T) {
	handler := NewBalanceHandler(&balanceServiceStub{
		getFn: func(ctx context.Context, tripID string) ([]*domain.BalanceRecord, error) {
			return nil, domain.ErrTripNotFound
		},
	})

	rec := httptest.NewRecorder()
	handler.Get(rec, requestWithTripID(t, "/trips/nope/balances", "nope"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSettlementHandler_Get(t *testing.T) {
	result := &usecase.SettlementResult{
		Balances: []*domain.BalanceRecord{
			{MemberID: "m-admin", DisplayName: "Alice", Role: domain.RoleAdmin, Balance: decimal.RequireFromString("1400")},
			{MemberID: "m-bob", DisplayName: "Bob", Role: domain.RoleMember, Balance: decimal.RequireFromString("300")},
		},
		Settlements: []domain.Settlement{
			{
				From:   domain.SettlementParty{MemberID: "m-admin", DisplayName: "Alice"},
				To:     domain.SettlementParty{MemberID: "m-bob", DisplayName: "Bob"},
				Amount: decimal.RequireFromString("300"),
			},
		},
	}

	handler := NewSettlementHandler(&settlementServiceStub{
		getFn: func(ctx context.Context, tripID string) (*usecase.SettlementResult, error) {
			return result, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Get(rec, requestWithTripID(t, "/trips/trip-1/settlement", "trip-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SettlementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Settlements) != 1 {
		t.Fatalf("expected 1 settlement, got %d", len(resp.Settlements))
	}
	if resp.Settlements[0].From.MemberID != "m-admin" || resp.Settlements[0].Amount != "300.00" {
		t.Fatalf("unexpected settlement %+v", resp.Settlements[0])
	}
}

func TestSettlementHandler_Get_NoAdministrator(t *testing.T) {
	handler := NewSettlementHandler(&settlementServiceStub{
		getFn: func(ctx context.Context, tripID string) (*usecase.SettlementResult, error) {
			return nil, domain.ErrNoAdministrator
		},
	})

	rec := httptest.NewRecorder()
	handler.Get(rec, requestWithTripID(t, "/trips/trip-1/settlement", "trip-1"))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
