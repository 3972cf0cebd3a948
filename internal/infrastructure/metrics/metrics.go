package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's Prometheus metrics. HTTP-level metrics live
// in the adapter middleware.
type Metrics struct {
	// Engine metrics
	BalanceComputations    prometheus.Counter
	SettlementResolutions  prometheus.Counter
	SettlementTransfers    prometheus.Histogram
	StatisticsComputations prometheus.Counter
	AnomaliesDetected      prometheus.Counter

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Write-path metrics
	PaymentsRecorded prometheus.Counter
	MembersCreated   prometheus.Counter
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates metrics registered on reg; tests pass their own
// registry to avoid duplicate registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		BalanceComputations: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripfund_balance_computations_total",
			Help: "Total number of balance computations",
		}),
		SettlementResolutions: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripfund_settlement_resolutions_total",
			Help: "Total number of settlement resolutions",
		}),
		SettlementTransfers: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripfund_settlement_transfers",
			Help:    "Number of transfers produced per settlement resolution",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		StatisticsComputations: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripfund_statistics_computations_total",
			Help: "Total number of statistics computations",
		}),
		AnomaliesDetected: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripfund_anomalies_detected_total",
			Help: "Total number of anomalous expenses flagged",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripfund_statistics_cache_hits_total",
			Help: "Statistics served from cache",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripfund_statistics_cache_misses_total",
			Help: "Statistics computed after a cache miss",
		}),
		PaymentsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripfund_payments_recorded_total",
			Help: "Total number of payments recorded",
		}),
		MembersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripfund_members_created_total",
			Help: "Total number of members created",
		}),
	}
}
