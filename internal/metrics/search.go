package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "search_requests_total",
			Help:      "Total number of search requests by outcome",
		},
		[]string{"outcome"}, // "ok" / "invalid" / "unavailable" / "timeout" / "error"
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalog",
			Name:      "search_request_duration_seconds",
			Help:      "Search request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"outcome"},
	)
)

// ObserveSearch records one search request.
func ObserveSearch(outcome string, elapsed time.Duration) {
	SearchRequestsTotal.WithLabelValues(outcome).Inc()
	SearchRequestDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
