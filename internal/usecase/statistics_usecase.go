package usecase

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tripfund/tripfund/internal/domain"
	"github.com/tripfund/tripfund/internal/infrastructure/metrics"
	"github.com/tripfund/tripfund/internal/money"
)

const dayLayout = "2006-01-02"

var two = decimal.NewFromInt(2)

// Trend thresholds: second-half average vs first-half average.
var (
	trendIncreasingFactor = decimal.RequireFromString("1.2")
	trendDecreasingFactor = decimal.RequireFromString("0.8")
)

// ComputeStatistics derives the full statistics object for one validated
// snapshot and its computed balances. It is read-only and side-effect
// free; derived list orderings (category breakdown by amount descending,
// anomalies by severity) are part of the contract.
func ComputeStatistics(snapshot *domain.Snapshot, balances []*domain.BalanceRecord) (*domain.TripStatistics, error) {
	stats := &domain.TripStatistics{
		ExpenseCount: len(snapshot.Payments),
	}

	amounts := make([]decimal.Decimal, 0, len(snapshot.Payments))
	for _, p := range snapshot.Payments {
		amounts = append(amounts, p.Amount)
	}
	stats.TotalExpenses = money.Sum(amounts...)

	if n := len(snapshot.Members); n > 0 {
		perPerson, err := money.Div(stats.TotalExpenses, decimal.NewFromInt(int64(n)))
		if err != nil {
			return nil, err
		}
		stats.AveragePerPerson = money.Round2(perPerson)
	}

	stats.CategoryBreakdown = categoryBreakdown(snapshot.Payments, stats.TotalExpenses)
	stats.DailyExpenses = dailyExpenses(snapshot.Payments)
	stats.FundStatus = fundStatus(snapshot)
	stats.MembersFinancialStatus = membersFinancialStatus(balances)
	stats.PaymentMethodStats = paymentMethodStats(snapshot.Payments)
	stats.TimeDistribution = timeDistribution(snapshot.Payments, stats.TotalExpenses)
	stats.AdvancedMetrics = advancedMetrics(amounts, stats.TotalExpenses, stats.DailyExpenses)
	stats.Anomalies = detectAnomalies(snapshot.Payments, stats.DailyExpenses)

	return stats, nil
}

func categoryBreakdown(payments []*domain.ExpensePayment, total decimal.Decimal) []domain.CategoryStat {
	byCategory := make(map[string]*domain.CategoryStat)
	for _, p := range payments {
		cat := p.Category()
		cs, ok := byCategory[cat]
		if !ok {
			cs = &domain.CategoryStat{CategoryID: cat}
			byCategory[cat] = cs
		}
		cs.Amount = cs.Amount.Add(p.Amount)
		cs.Count++
	}

	breakdown := make([]domain.CategoryStat, 0, len(byCategory))
	for _, cs := range byCategory {
		if !total.IsZero() {
			pct, _ := money.Percentage(cs.Amount, total)
			cs.Percentage = money.Round2(pct)
		}
		breakdown = append(breakdown, *cs)
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if !breakdown[i].Amount.Equal(breakdown[j].Amount) {
			return breakdown[i].Amount.GreaterThan(breakdown[j].Amount)
		}
		return breakdown[i].CategoryID < breakdown[j].CategoryID
	})

	return breakdown
}

func dailyExpenses(payments []*domain.ExpensePayment) []domain.DailyExpense {
	byDay := make(map[string]*domain.DailyExpense)
	for _, p := range payments {
		day := p.ExpenseDate.Format(dayLayout)
		de, ok := byDay[day]
		if !ok {
			de = &domain.DailyExpense{Date: day}
			byDay[day] = de
		}
		de.Amount = de.Amount.Add(p.Amount)
		de.Count++
	}

	daily := make([]domain.DailyExpense, 0, len(byDay))
	for _, de := range byDay {
		daily = append(daily, *de)
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })

	return daily
}

func fundStatus(snapshot *domain.Snapshot) domain.FundStatus {
	contributions := decimal.Zero
	for _, m := range snapshot.Members {
		contributions = contributions.Add(m.Contribution)
	}

	fundExpenses := decimal.Zero
	for _, p := range snapshot.Payments {
		if p.PaidFromFund {
			fundExpenses = fundExpenses.Add(p.Amount)
		}
	}

	status := domain.FundStatus{
		TotalContributions: contributions,
		FundExpenses:       fundExpenses,
		Balance:            contributions.Sub(fundExpenses),
	}

	if !contributions.IsZero() {
		pct, _ := money.Percentage(fundExpenses, contributions)
		status.Utilization = money.Round2(pct)
	}

	return status
}

func membersFinancialStatus(balances []*domain.BalanceRecord) []domain.MemberFinancialStatus {
	statuses := make([]domain.MemberFinancialStatus, len(balances))
	for i, r := range balances {
		statuses[i] = domain.MemberFinancialStatus{
			MemberID:     r.MemberID,
			DisplayName:  r.DisplayName,
			Contribution: r.Contribution,
			TotalPaid:    r.TotalPaid,
			TotalShare:   r.TotalShare,
			Balance:      r.Balance,
		}
	}
	return statuses
}

func paymentMethodStats(payments []*domain.ExpensePayment) domain.PaymentMethodStats {
	var stats domain.PaymentMethodStats
	for _, p := range payments {
		if p.PaidFromFund {
			stats.FundAmount = stats.FundAmount.Add(p.Amount)
			stats.FundCount++
		} else {
			stats.PocketAmount = stats.PocketAmount.Add(p.Amount)
			stats.PocketCount++
		}
	}
	return stats
}

func timeDistribution(payments []*domain.ExpensePayment, total decimal.Decimal) domain.TimeDistribution {
	var dist domain.TimeDistribution

	bucket := func(hour int) *domain.TimeBucket {
		switch {
		case hour >= 6 && hour < 12:
			return &dist.Morning
		case hour >= 12 && hour < 18:
			return &dist.Afternoon
		case hour >= 18:
			return &dist.Evening
		default:
			return &dist.Night
		}
	}

	for _, p := range payments {
		b := bucket(p.ExpenseDate.Hour())
		b.Count++
		b.Amount = b.Amount.Add(p.Amount)
	}

	if !total.IsZero() {
		for _, b := range []*domain.TimeBucket{&dist.Morning, &dist.Afternoon, &dist.Evening, &dist.Night} {
			pct, _ := money.Percentage(b.Amount, total)
			b.Percentage = money.Round2(pct)
		}
	}

	return dist
}

func advancedMetrics(amounts []decimal.Decimal, total decimal.Decimal, daily []domain.DailyExpense) domain.AdvancedMetrics {
	m := domain.AdvancedMetrics{
		DaysWithExpenses: len(daily),
		Trend:            domain.TrendStable,
	}

	if len(amounts) > 0 {
		m.LargestExpense = money.Max(amounts)
		m.SmallestExpense = money.Min(amounts)
		avg, _ := money.Average(amounts)
		m.AverageExpense = money.Round2(avg)
	}

	if len(daily) > 0 {
		perDay, _ := money.Div(total, decimal.NewFromInt(int64(len(daily))))
		m.AveragePerDay = money.Round2(perDay)
	}

	m.Trend = trend(daily)

	return m
}

// trend compares the average daily spend of the chronological first and
// second halves of the series.
func trend(daily []domain.DailyExpense) domain.Trend {
	if len(daily) < 2 {
		return domain.TrendStable
	}

	half := len(daily) / 2
	firstAvg := halfAverage(daily[:half])
	secondAvg := halfAverage(daily[half:])

	switch {
	case secondAvg.GreaterThan(firstAvg.Mul(trendIncreasingFactor)):
		return domain.TrendIncreasing
	case secondAvg.LessThan(firstAvg.Mul(trendDecreasingFactor)):
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

func halfAverage(daily []domain.DailyExpense) decimal.Decimal {
	values := make([]decimal.Decimal, len(daily))
	for i, de := range daily {
		values[i] = de.Amount
	}
	avg, err := money.Average(values)
	if err != nil {
		return decimal.Zero
	}
	return avg
}

// detectAnomalies flags statistical outliers. high_amount: the payment
// exceeds mean + 2*stddev (population) of all positive amounts and twice
// the daily average; severity escalates to high past twice that
// threshold. unusual_time: a payment between 00:00 and 05:00 above the
// mean. Result is ordered high, medium, low.
func detectAnomalies(payments []*domain.ExpensePayment, daily []domain.DailyExpense) []domain.Anomaly {
	if len(payments) == 0 {
		return nil
	}

	amounts := make([]decimal.Decimal, len(payments))
	for i, p := range payments {
		amounts[i] = p.Amount
	}
	mean, err := money.Average(amounts)
	if err != nil {
		return nil
	}

	// Population standard deviation. The square root has no exact
	// decimal form, so it is taken through float64 and converted back;
	// the 0.01 tolerance elsewhere absorbs the residual imprecision.
	variance := decimal.Zero
	for _, a := range amounts {
		diff := a.Sub(mean)
		variance = variance.Add(diff.Mul(diff))
	}
	variance, _ = money.Div(variance, decimal.NewFromInt(int64(len(amounts))))
	stddev := money.FromFloat(math.Sqrt(variance.InexactFloat64()))

	threshold := mean.Add(stddev.Mul(two))

	dailyAvg := decimal.Zero
	if len(daily) > 0 {
		total := money.Sum(amounts...)
		dailyAvg, _ = money.Div(total, decimal.NewFromInt(int64(len(daily))))
	}

	var anomalies []domain.Anomaly
	for _, p := range payments {
		if p.Amount.GreaterThan(threshold) && p.Amount.GreaterThan(dailyAvg.Mul(two)) {
			severity := domain.SeverityMedium
			if p.Amount.GreaterThan(threshold.Mul(two)) {
				severity = domain.SeverityHigh
			}
			anomalies = append(anomalies, domain.Anomaly{
				PaymentID:   p.ID,
				Type:        domain.AnomalyHighAmount,
				Severity:    severity,
				Amount:      p.Amount,
				ExpenseDate: p.ExpenseDate,
				Description: "amount is well above the trip's typical expense",
			})
		}

		if isUnusualHour(p.ExpenseDate) && p.Amount.GreaterThan(mean) {
			anomalies = append(anomalies, domain.Anomaly{
				PaymentID:   p.ID,
				Type:        domain.AnomalyUnusualTime,
				Severity:    domain.SeverityLow,
				Amount:      p.Amount,
				ExpenseDate: p.ExpenseDate,
				Description: "above-average expense recorded between 00:00 and 05:00",
			})
		}
	}

	sort.SliceStable(anomalies, func(i, j int) bool {
		if anomalies[i].Severity != anomalies[j].Severity {
			return anomalies[i].Severity.Rank() < anomalies[j].Severity.Rank()
		}
		return anomalies[i].Amount.GreaterThan(anomalies[j].Amount)
	})

	return anomalies
}

func isUnusualHour(t time.Time) bool {
	return t.Hour() < 5
}

// StatisticsUseCase computes and caches trip statistics.
type StatisticsUseCase struct {
	snapshots SnapshotRepository
	cache     Cache
	metrics   *metrics.Metrics
}

// NewStatisticsUseCase creates a new StatisticsUseCase. cache and metrics
// may be nil.
func NewStatisticsUseCase(snapshots SnapshotRepository, cache Cache, m *metrics.Metrics) *StatisticsUseCase {
	return &StatisticsUseCase{
		snapshots: snapshots,
		cache:     cache,
		metrics:   m,
	}
}

// StatisticsCacheKey returns the cache key for one trip's statistics.
// Mutating use cases delete this key to invalidate.
func StatisticsCacheKey(tripID string) string {
	return "statistics:" + tripID
}

// GetStatistics returns the statistics object for a trip, serving from
// cache when a fresh entry exists.
func (uc *StatisticsUseCase) GetStatistics(ctx context.Context, tripID string) (*domain.TripStatistics, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, StatisticsCacheKey(tripID)); err == nil && cached != nil {
			var stats domain.TripStatistics
			if err := json.Unmarshal(cached, &stats); err == nil {
				if uc.metrics != nil {
					uc.metrics.CacheHits.Inc()
				}
				return &stats, nil
			}
		}
		if uc.metrics != nil {
			uc.metrics.CacheMisses.Inc()
		}
	}

	snapshot, err := uc.snapshots.Load(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	balances, err := CalculateBalances(snapshot)
	if err != nil {
		return nil, err
	}

	stats, err := ComputeStatistics(snapshot, balances)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.StatisticsComputations.Inc()
		uc.metrics.AnomaliesDetected.Add(float64(len(stats.Anomalies)))
	}

	if uc.cache != nil {
		if encoded, err := json.Marshal(stats); err == nil {
			_ = uc.cache.Set(ctx, StatisticsCacheKey(tripID), encoded, StatisticsCacheTTL)
		}
	}

	return stats, nil
}
