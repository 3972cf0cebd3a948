package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trend describes how spending evolved between the first and second half
// of the trip's daily expense series.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// AnomalyType classifies a flagged expense.
type AnomalyType string

const (
	// AnomalyHighAmount flags expenses far above the statistical norm.
	AnomalyHighAmount AnomalyType = "high_amount"
	// AnomalyUnusualTime flags above-average expenses between 00:00 and 05:00.
	AnomalyUnusualTime AnomalyType = "unusual_time"
)

// AnomalySeverity orders anomalies from most to least significant.
type AnomalySeverity string

const (
	SeverityHigh   AnomalySeverity = "high"
	SeverityMedium AnomalySeverity = "medium"
	SeverityLow    AnomalySeverity = "low"
)

// Rank returns the sort rank of a severity; lower sorts first.
func (s AnomalySeverity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// Anomaly is one flagged expense.
type Anomaly struct {
	PaymentID   string
	Type        AnomalyType
	Severity    AnomalySeverity
	Amount      decimal.Decimal
	ExpenseDate time.Time
	Description string
}

// CategoryStat is one row of the category breakdown, sorted descending
// by amount.
type CategoryStat struct {
	CategoryID string
	Amount     decimal.Decimal
	Count      int
	Percentage decimal.Decimal
}

// DailyExpense is the expense total for one calendar day.
type DailyExpense struct {
	Date   string // YYYY-MM-DD
	Amount decimal.Decimal
	Count  int
}

// FundStatus reports the pooled fund's balance and utilization.
type FundStatus struct {
	TotalContributions decimal.Decimal
	FundExpenses       decimal.Decimal
	Balance            decimal.Decimal
	Utilization        decimal.Decimal // percent, 0 when contributions are 0
}

// MemberFinancialStatus summarizes one member's position for statistics
// output.
type MemberFinancialStatus struct {
	MemberID     string
	DisplayName  string
	Contribution decimal.Decimal
	TotalPaid    decimal.Decimal
	TotalShare   decimal.Decimal
	Balance      decimal.Decimal
}

// PaymentMethodStats splits spending between fund-funded and
// out-of-pocket payments.
type PaymentMethodStats struct {
	FundAmount   decimal.Decimal
	FundCount    int
	PocketAmount decimal.Decimal
	PocketCount  int
}

// TimeBucket is one window of the time-of-day distribution.
type TimeBucket struct {
	Count      int
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

// TimeDistribution buckets payments into four fixed local-time windows.
type TimeDistribution struct {
	Morning   TimeBucket // 06:00-12:00
	Afternoon TimeBucket // 12:00-18:00
	Evening   TimeBucket // 18:00-24:00
	Night     TimeBucket // 00:00-06:00
}

// AdvancedMetrics carries derived aggregate metrics.
type AdvancedMetrics struct {
	LargestExpense   decimal.Decimal
	SmallestExpense  decimal.Decimal
	AverageExpense   decimal.Decimal
	AveragePerDay    decimal.Decimal
	DaysWithExpenses int
	Trend            Trend
}

// TripStatistics is the full statistics object produced for one trip
// snapshot.
type TripStatistics struct {
	TotalExpenses          decimal.Decimal
	ExpenseCount           int
	AveragePerPerson       decimal.Decimal
	CategoryBreakdown      []CategoryStat
	DailyExpenses          []DailyExpense
	FundStatus             FundStatus
	MembersFinancialStatus []MemberFinancialStatus
	PaymentMethodStats     PaymentMethodStats
	TimeDistribution       TimeDistribution
	AdvancedMetrics        AdvancedMetrics
	Anomalies              []Anomaly
}
