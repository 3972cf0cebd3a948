package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tripfund/tripfund/internal/adapter/http/dto"
	"github.com/tripfund/tripfund/internal/domain"
	"github.com/tripfund/tripfund/internal/usecase"
)

type paymentServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreatePaymentInput) (*domain.ExpensePayment, []*domain.ExpenseShare, error)
	getFn    func(ctx context.Context, id string) (*domain.ExpensePayment, error)
	listFn   func(ctx context.Context, tripID string, limit, offset int) ([]*domain.ExpensePayment, error)
}

func (s *paymentServiceStub) CreatePayment(ctx context.Context, input usecase.CreatePaymentInput) (*domain.ExpensePayment, []*domain.ExpenseShare, error) {
	return s.createFn(ctx, input)
}

func (s *paymentServiceStub) GetPayment(ctx context.Context, id string) (*domain.ExpensePayment, error) {
	return s.getFn(ctx, id)
}

func (s *paymentServiceStub) ListPayments(ctx context.Context, tripID string, limit, offset int) ([]*domain.ExpensePayment, error) {
	return s.listFn(ctx, tripID, limit, offset)
}

func postWithTripID(t *testing.T, target, tripID string, body []byte) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("tripID", tripID)

	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPaymentHandler_Create_Success(t *testing.T) {
	amount := decimal.RequireFromString("200")
	payment := &domain.ExpensePayment{
		ID:            "p-1",
		TripID:        "trip-1",
		PayerMemberID: "m-admin",
		Amount:        decimal.RequireFromString("600"),
		ExpenseDate:   time.Date(2026, 7, 14, 20, 0, 0, 0, time.UTC),
		CategoryID:    "food",
	}
	shares := []*domain.ExpenseShare{
		{PaymentID: "p-1", MemberID: "m-admin", ShareAmount: &amount},
		{PaymentID: "p-1", MemberID: "m-bob", ShareAmount: &amount},
		{PaymentID: "p-1", MemberID: "m-vera", ShareAmount: &amount},
	}

	var captured usecase.CreatePaymentInput
	handler := NewPaymentHandler(&paymentServiceStub{
		createFn: func(ctx context.Context, input usecase.CreatePaymentInput) (*domain.ExpensePayment, []*domain.ExpenseShare, error) {
			captured = input
			return payment, shares, nil
		},
	})

	body, _ := json.Marshal(dto.CreatePaymentRequest{
		PayerMemberID:       "m-admin",
		Amount:              decimal.RequireFromString("600"),
		CategoryID:          "food",
		EqualSplitMemberIDs: []string{"m-admin", "m-bob", "m-vera"},
	})

	rec := httptest.NewRecorder()
	handler.Create(rec, postWithTripID(t, "/trips/trip-1/payments", "trip-1", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.TripID != "trip-1" || len(captured.EqualSplitMemberIDs) != 3 {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.PaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Amount != "600.00" || len(resp.Shares) != 3 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestPaymentHandler_Create_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no split", usecase.ErrNoSplit, http.StatusBadRequest},
		{"ambiguous split", usecase.ErrAmbiguousSplit, http.StatusBadRequest},
		{"non-positive amount", domain.ErrNonPositiveAmount, http.StatusBadRequest},
		{"share sum mismatch", domain.ErrShareSumMismatch, http.StatusConflict},
		{"unknown payer", domain.ErrMemberNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewPaymentHandler(&paymentServiceStub{
				createFn: func(ctx context.Context, input usecase.CreatePaymentInput) (*domain.ExpensePayment, []*domain.ExpenseShare, error) {
					return nil, nil, tt.err
				},
			})

			body, _ := json.Marshal(dto.CreatePaymentRequest{
				PayerMemberID: "m-admin",
				Amount:        decimal.RequireFromString("100"),
			})

			rec := httptest.NewRecorder()
			handler.Create(rec, postWithTripID(t, "/trips/trip-1/payments", "trip-1", body))

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestPaymentHandler_Create_InvalidBody(t *testing.T) {
	handler := NewPaymentHandler(&paymentServiceStub{})

	rec := httptest.NewRecorder()
	handler.Create(rec, postWithTripID(t, "/trips/trip-1/payments", "trip-1", []byte("{not json")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPaymentHandler_List_ForwardsPagination(t *testing.T) {
	var gotLimit, gotOffset int
	handler := NewPaymentHandler(&paymentServiceStub{
		listFn: func(ctx context.Context, tripID string, limit, offset int) ([]*domain.ExpensePayment, error) {
			gotLimit, gotOffset = limit, offset
			return nil, nil
		},
	})

	req := requestWithTripID(t, "/trips/trip-1/payments?limit=10&offset=30", "trip-1")
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotLimit != 10 || gotOffset != 30 {
		t.Fatalf("expected limit=10 offset=30, got %d/%d", gotLimit, gotOffset)
	}
}
