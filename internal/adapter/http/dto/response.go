package dto

import (
	"time"

	"github.com/tripfund/tripfund/internal/domain"
	"github.com/tripfund/tripfund/internal/money"
	"github.com/tripfund/tripfund/internal/usecase"
)

// Monetary values are rendered as strings with exactly two fractional
// digits, so clients never receive a binary float.

// TripResponse represents a trip in API responses.
type TripResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

// TripFromDomain converts a domain trip to a response.
func TripFromDomain(t *domain.Trip) *TripResponse {
	return &TripResponse{
		ID:        t.ID,
		Name:      t.Name,
		Currency:  t.Currency,
		CreatedAt: t.CreatedAt,
	}
}

// MemberResponse represents a member in API responses.
type MemberResponse struct {
	ID           string    `json:"id"`
	TripID       string    `json:"trip_id"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role"`
	IsVirtual    bool      `json:"is_virtual"`
	Contribution string    `json:"contribution"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MemberFromDomain converts a domain member to a response.
func MemberFromDomain(m *domain.Member) *MemberResponse {
	return &MemberResponse{
		ID:           m.ID,
		TripID:       m.TripID,
		DisplayName:  m.DisplayName,
		Role:         string(m.Role),
		IsVirtual:    m.IsVirtual,
		Contribution: money.Format(m.Contribution),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// MembersFromDomain converts domain members to responses.
func MembersFromDomain(members []*domain.Member) []*MemberResponse {
	result := make([]*MemberResponse, len(members))
	for i, m := range members {
		result[i] = MemberFromDomain(m)
	}
	return result
}

// ShareResponse represents a payment share in API responses.
type ShareResponse struct {
	MemberID   string  `json:"member_id"`
	Amount     *string `json:"amount,omitempty"`
	Percentage *string `json:"percentage,omitempty"`
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID            string          `json:"id"`
	TripID        string          `json:"trip_id"`
	PayerMemberID string          `json:"payer_member_id"`
	Amount        string          `json:"amount"`
	PaidFromFund  bool            `json:"paid_from_fund"`
	ExpenseDate   time.Time       `json:"expense_date"`
	CategoryID    string          `json:"category_id"`
	Description   string          `json:"description,omitempty"`
	Shares        []ShareResponse `json:"shares,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PaymentFromDomain converts a domain payment and its shares to a
// response.
func PaymentFromDomain(p *domain.ExpensePayment, shares []*domain.ExpenseShare) *PaymentResponse {
	resp := &PaymentResponse{
		ID:            p.ID,
		TripID:        p.TripID,
		PayerMemberID: p.PayerMemberID,
		Amount:        money.Format(p.Amount),
		PaidFromFund:  p.PaidFromFund,
		ExpenseDate:   p.ExpenseDate,
		CategoryID:    p.Category(),
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
	}
	for _, sh := range shares {
		item := ShareResponse{MemberID: sh.MemberID}
		if sh.ShareAmount != nil {
			s := money.Format(*sh.ShareAmount)
			item.Amount = &s
		}
		if sh.SharePercentage != nil {
			s := money.Format(*sh.SharePercentage)
			item.Percentage = &s
		}
		resp.Shares = append(resp.Shares, item)
	}
	return resp
}

// PaymentsFromDomain converts domain payments to responses without
// share detail.
func PaymentsFromDomain(payments []*domain.ExpensePayment) []*PaymentResponse {
	result := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = PaymentFromDomain(p, nil)
	}
	return result
}

// DebtEdgeResponse is one edge of the settlement graph.
type DebtEdgeResponse struct {
	MemberID    string `json:"member_id"`
	DisplayName string `json:"display_name"`
	Amount      string `json:"amount"`
}

// BalanceResponse represents one member's balance in API responses.
type BalanceResponse struct {
	MemberID     string             `json:"member_id"`
	DisplayName  string             `json:"display_name"`
	Role         string             `json:"role"`
	IsVirtual    bool               `json:"is_virtual"`
	Contribution string             `json:"contribution"`
	TotalPaid    string             `json:"total_paid"`
	TotalShare   string             `json:"total_share"`
	Balance      string             `json:"balance"`
	OwesTo       []DebtEdgeResponse `json:"owes_to,omitempty"`
	OwedBy       []DebtEdgeResponse `json:"owed_by,omitempty"`
}

// BalanceFromDomain converts a balance record to a response.
func BalanceFromDomain(r *domain.BalanceRecord) *BalanceResponse {
	return &BalanceResponse{
		MemberID:     r.MemberID,
		DisplayName:  r.DisplayName,
		Role:         string(r.Role),
		IsVirtual:    r.IsVirtual,
		Contribution: money.Format(r.Contribution),
		TotalPaid:    money.Format(r.TotalPaid),
		TotalShare:   money.Format(r.TotalShare),
		Balance:      money.Format(r.Balance),
		OwesTo:       debtEdgesFromDomain(r.OwesTo),
		OwedBy:       debtEdgesFromDomain(r.OwedBy),
	}
}

// BalancesFromDomain converts balance records to responses.
func BalancesFromDomain(records []*domain.BalanceRecord) []*BalanceResponse {
	result := make([]*BalanceResponse, len(records))
	for i, r := range records {
		result[i] = BalanceFromDomain(r)
	}
	return result
}

func debtEdgesFromDomain(edges []domain.DebtEdge) []DebtEdgeResponse {
	if len(edges) == 0 {
		return nil
	}
	result := make([]DebtEdgeResponse, len(edges))
	for i, e := range edges {
		result[i] = DebtEdgeResponse{
			MemberID:    e.MemberID,
			DisplayName: e.DisplayName,
			Amount:      money.Format(e.Amount),
		}
	}
	return result
}

// SettlementPartyResponse identifies one side of a transfer.
type SettlementPartyResponse struct {
	MemberID    string `json:"member_id"`
	DisplayName string `json:"display_name"`
}

// SettlementItemResponse is one resolved transfer.
type SettlementItemResponse struct {
	From   SettlementPartyResponse `json:"from"`
	To     SettlementPartyResponse `json:"to"`
	Amount string                  `json:"amount"`
}

// SettlementResponse bundles the transfer plan with the balances it was
// derived from.
type SettlementResponse struct {
	Balances    []*BalanceResponse       `json:"balances"`
	Settlements []SettlementItemResponse `json:"settlements"`
}

// SettlementFromDomain converts a settlement result to a response.
func SettlementFromDomain(result *usecase.SettlementResult) *SettlementResponse {
	resp := &SettlementResponse{
		Balances:    BalancesFromDomain(result.Balances),
		Settlements: make([]SettlementItemResponse, len(result.Settlements)),
	}
	for i, s := range result.Settlements {
		resp.Settlements[i] = SettlementItemResponse{
			From:   SettlementPartyResponse{MemberID: s.From.MemberID, DisplayName: s.From.DisplayName},
			To:     SettlementPartyResponse{MemberID: s.To.MemberID, DisplayName: s.To.DisplayName},
			Amount: money.Format(s.Amount),
		}
	}
	return resp
}

// CategoryStatResponse is one row of the category breakdown.
type CategoryStatResponse struct {
	CategoryID string `json:"category_id"`
	Amount     string `json:"amount"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// DailyExpenseResponse is one day of the daily series.
type DailyExpenseResponse struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
	Count  int    `json:"count"`
}

// FundStatusResponse reports the pooled fund's state.
type FundStatusResponse struct {
	TotalContributions string `json:"total_contributions"`
	FundExpenses       string `json:"fund_expenses"`
	Balance            string `json:"balance"`
	Utilization        string `json:"utilization"`
}

// MemberStatusResponse is one member's financial summary.
type MemberStatusResponse struct {
	MemberID     string `json:"member_id"`
	DisplayName  string `json:"display_name"`
	Contribution string `json:"contribution"`
	TotalPaid    string `json:"total_paid"`
	TotalShare   string `json:"total_share"`
	Balance      string `json:"balance"`
}

// PaymentMethodStatsResponse splits spending by funding source.
type PaymentMethodStatsResponse struct {
	FundAmount   string `json:"fund_amount"`
	FundCount    int    `json:"fund_count"`
	PocketAmount string `json:"pocket_amount"`
	PocketCount  int    `json:"pocket_count"`
}

// TimeBucketResponse is one window of the time-of-day distribution.
type TimeBucketResponse struct {
	Count      int    `json:"count"`
	Amount     string `json:"amount"`
	Percentage string `json:"percentage"`
}

// TimeDistributionResponse buckets payments by time of day.
type TimeDistributionResponse struct {
	Morning   TimeBucketResponse `json:"morning"`
	Afternoon TimeBucketResponse `json:"afternoon"`
	Evening   TimeBucketResponse `json:"evening"`
	Night     TimeBucketResponse `json:"night"`
}

// AdvancedMetricsResponse carries derived aggregate metrics.
type AdvancedMetricsResponse struct {
	LargestExpense   string `json:"largest_expense"`
	SmallestExpense  string `json:"smallest_expense"`
	AverageExpense   string `json:"average_expense"`
	AveragePerDay    string `json:"average_per_day"`
	DaysWithExpenses int    `json:"days_with_expenses"`
	Trend            string `json:"trend"`
}

// AnomalyResponse is one flagged expense.
type AnomalyResponse struct {
	PaymentID   string    `json:"payment_id"`
	Type        string    `json:"type"`
	Severity    string    `json:"severity"`
	Amount      string    `json:"amount"`
	ExpenseDate time.Time `json:"expense_date"`
	Description string    `json:"description"`
}

// StatisticsResponse is the full statistics object for one trip.
type StatisticsResponse struct {
	TotalExpenses          string                     `json:"total_expenses"`
	ExpenseCount           int                        `json:"expense_count"`
	AveragePerPerson       string                     `json:"average_per_person"`
	CategoryBreakdown      []CategoryStatResponse     `json:"category_breakdown"`
	DailyExpenses          []DailyExpenseResponse     `json:"daily_expenses"`
	FundStatus             FundStatusResponse         `json:"fund_status"`
	MembersFinancialStatus []MemberStatusResponse     `json:"members_financial_status"`
	PaymentMethodStats     PaymentMethodStatsResponse `json:"payment_method_stats"`
	TimeDistribution       TimeDistributionResponse   `json:"time_distribution"`
	AdvancedMetrics        AdvancedMetricsResponse    `json:"advanced_metrics"`
	Anomalies              []AnomalyResponse          `json:"anomalies"`
}

// StatisticsFromDomain converts trip statistics to a response.
func StatisticsFromDomain(s *domain.TripStatistics) *StatisticsResponse {
	resp := &StatisticsResponse{
		TotalExpenses:    money.Format(s.TotalExpenses),
		ExpenseCount:     s.ExpenseCount,
		AveragePerPerson: money.Format(s.AveragePerPerson),
		FundStatus: FundStatusResponse{
			TotalContributions: money.Format(s.FundStatus.TotalContributions),
			FundExpenses:       money.Format(s.FundStatus.FundExpenses),
			Balance:            money.Format(s.FundStatus.Balance),
			Utilization:        money.Format(s.FundStatus.Utilization),
		},
		PaymentMethodStats: PaymentMethodStatsResponse{
			FundAmount:   money.Format(s.PaymentMethodStats.FundAmount),
			FundCount:    s.PaymentMethodStats.FundCount,
			PocketAmount: money.Format(s.PaymentMethodStats.PocketAmount),
			PocketCount:  s.PaymentMethodStats.PocketCount,
		},
		TimeDistribution: TimeDistributionResponse{
			Morning:   timeBucketFromDomain(s.TimeDistribution.Morning),
			Afternoon: timeBucketFromDomain(s.TimeDistribution.Afternoon),
			Evening:   timeBucketFromDomain(s.TimeDistribution.Evening),
			Night:     timeBucketFromDomain(s.TimeDistribution.Night),
		},
		AdvancedMetrics: AdvancedMetricsResponse{
			LargestExpense:   money.Format(s.AdvancedMetrics.LargestExpense),
			SmallestExpense:  money.Format(s.AdvancedMetrics.SmallestExpense),
			AverageExpense:   money.Format(s.AdvancedMetrics.AverageExpense),
			AveragePerDay:    money.Format(s.AdvancedMetrics.AveragePerDay),
			DaysWithExpenses: s.AdvancedMetrics.DaysWithExpenses,
			Trend:            string(s.AdvancedMetrics.Trend),
		},
	}

	for _, cs := range s.CategoryBreakdown {
		resp.CategoryBreakdown = append(resp.CategoryBreakdown, CategoryStatResponse{
			CategoryID: cs.CategoryID,
			Amount:     money.Format(cs.Amount),
			Count:      cs.Count,
			Percentage: money.Format(cs.Percentage),
		})
	}
	for _, de := range s.DailyExpenses {
		resp.DailyExpenses = append(resp.DailyExpenses, DailyExpenseResponse{
			Date:   de.Date,
			Amount: money.Format(de.Amount),
			Count:  de.Count,
		})
	}
	for _, ms := range s.MembersFinancialStatus {
		resp.MembersFinancialStatus = append(resp.MembersFinancialStatus, MemberStatusResponse{
			MemberID:     ms.MemberID,
			DisplayName:  ms.DisplayName,
			Contribution: money.Format(ms.Contribution),
			TotalPaid:    money.Format(ms.TotalPaid),
			TotalShare:   money.Format(ms.TotalShare),
			Balance:      money.Format(ms.Balance),
		})
	}
	for _, a := range s.Anomalies {
		resp.Anomalies = append(resp.Anomalies, AnomalyResponse{
			PaymentID:   a.PaymentID,
			Type:        string(a.Type),
			Severity:    string(a.Severity),
			Amount:      money.Format(a.Amount),
			ExpenseDate: a.ExpenseDate,
			Description: a.Description,
		})
	}

	return resp
}

func timeBucketFromDomain(b domain.TimeBucket) TimeBucketResponse {
	return TimeBucketResponse{
		Count:      b.Count,
		Amount:     money.Format(b.Amount),
		Percentage: money.Format(b.Percentage),
	}
}

// ListMembersResponse wraps a member list.
type ListMembersResponse struct {
	Members []*MemberResponse `json:"members"`
	Total   int               `json:"total"`
}

// ListPaymentsResponse wraps a payment list.
type ListPaymentsResponse struct {
	Payments []*PaymentResponse `json:"payments"`
	Total    int                `json:"total"`
}

// ListBalancesResponse wraps a balance list.
type ListBalancesResponse struct {
	Balances []*BalanceResponse `json:"balances"`
}

// CreateTripResponse returns the trip together with its administrator.
type CreateTripResponse struct {
	Trip  *TripResponse   `json:"trip"`
	Admin *MemberResponse `json:"admin"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
