// Package metrics provides centralized Prometheus metrics registry for the value staker.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "value_staker"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Candidate pipeline stages
const (
	StageInput    = "input"
	StageValue    = "value"
	StageRejected = "rejected"
)

// Counter metrics
var (
	AllocationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "allocations_total",
		Help:      "Total number of allocation runs",
	})
	CandidatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "candidates_total",
		Help:      "Candidates seen per pipeline stage",
	}, []string{"stage"})
	BetsRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bets_recorded_total",
		Help:      "Total number of bets with a positive stake",
	})
	BetsRetainedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bets_retained_total",
		Help:      "Total number of bets at or above the minimum stake",
	})
	BetsBelowFloorTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bets_below_floor_total",
		Help:      "Total number of positive stakes below the minimum stake",
	})
	StopConditionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stop_conditions_total",
		Help:      "Total number of allocation runs halted by the bankroll floor",
	})
)

// Gauge metrics
var (
	FinalBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "final_bankroll",
		Help:      "Bankroll left after the most recent allocation",
	})
	TotalStaked = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "total_staked",
		Help:      "Sum of retained stakes in the most recent allocation",
	})
)

// Histogram metrics
var (
	AllocationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "allocation_duration_seconds",
		Help:      "Duration of allocation runs in seconds",
		Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(AllocationsTotal)
		registry.MustRegister(CandidatesTotal)
		registry.MustRegister(BetsRecordedTotal)
		registry.MustRegister(BetsRetainedTotal)
		registry.MustRegister(BetsBelowFloorTotal)
		registry.MustRegister(StopConditionsTotal)

		registry.MustRegister(FinalBankroll)
		registry.MustRegister(TotalStaked)

		registry.MustRegister(AllocationDuration)

		// Register feed metrics
		registry.MustRegister(FeedRequestsTotal)
		registry.MustRegister(FeedRequestDuration)
		registry.MustRegister(FeedMatchesLoaded)
		registry.MustRegister(CircuitBreakerTripsTotal)
		registry.MustRegister(PlanCacheHitsTotal)
		registry.MustRegister(PlanCacheMissesTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// AllocationStats is the subset of an allocation outcome the metrics track.
type AllocationStats struct {
	Candidates    int
	ValueBets     int
	Recorded      int
	Retained      int
	BelowFloor    int
	Stopped       bool
	FinalBankroll float64
	TotalStaked   float64
}

// RecordAllocation records one allocation run.
func RecordAllocation(stats AllocationStats, durationSeconds float64) {
	AllocationsTotal.Inc()
	AllocationDuration.Observe(durationSeconds)

	CandidatesTotal.WithLabelValues(StageInput).Add(float64(stats.Candidates))
	CandidatesTotal.WithLabelValues(StageValue).Add(float64(stats.ValueBets))

	BetsRecordedTotal.Add(float64(stats.Recorded))
	BetsRetainedTotal.Add(float64(stats.Retained))
	BetsBelowFloorTotal.Add(float64(stats.BelowFloor))
	if stats.Stopped {
		StopConditionsTotal.Inc()
	}

	FinalBankroll.Set(stats.FinalBankroll)
	TotalStaked.Set(stats.TotalStaked)
}

// RecordCandidatesRejected records feed rows that could not become candidates.
func RecordCandidatesRejected(count int) {
	CandidatesTotal.WithLabelValues(StageRejected).Add(float64(count))
}
