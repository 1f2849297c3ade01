// Package metrics provides feed and cache metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Feed request outcomes
const (
	FeedStatusSuccess = "success"
	FeedStatusError   = "error"
)

var (
	// FeedRequestsTotal tracks feed loads by feed and status.
	FeedRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_requests_total",
		Help:      "Total number of feed loads by feed and status",
	}, []string{"feed", "status"})

	// FeedRequestDuration tracks feed load latency.
	FeedRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feed_request_duration_seconds",
		Help:      "Duration of feed loads in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"feed"})

	// FeedMatchesLoaded tracks the number of matches in the latest load.
	FeedMatchesLoaded = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "feed_matches_loaded",
		Help:      "Number of matches returned by the latest feed load",
	}, []string{"feed"})

	// CircuitBreakerTripsTotal tracks feed circuit breaker openings.
	CircuitBreakerTripsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of feed circuit breaker trips",
	}, []string{"feed"})

	PlanCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plan_cache_hits_total",
		Help:      "Total number of plan cache hits",
	})
	PlanCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plan_cache_misses_total",
		Help:      "Total number of plan cache misses",
	})
)

// RecordFeedRequest records a feed load.
func RecordFeedRequest(feed, status string, durationSeconds float64, matches int) {
	FeedRequestsTotal.WithLabelValues(feed, status).Inc()
	FeedRequestDuration.WithLabelValues(feed).Observe(durationSeconds)
	if status == FeedStatusSuccess {
		FeedMatchesLoaded.WithLabelValues(feed).Set(float64(matches))
	}
}

// RecordCircuitBreakerTrip records a circuit breaker opening.
func RecordCircuitBreakerTrip(feed string) {
	CircuitBreakerTripsTotal.WithLabelValues(feed).Inc()
}

// RecordPlanCache records a plan cache lookup.
func RecordPlanCache(hit bool) {
	if hit {
		PlanCacheHitsTotal.Inc()
		return
	}
	PlanCacheMissesTotal.Inc()
}
