package api

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the optimize handler, including master-data loading
	optimizeLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dorifit_optimize_latency_seconds",
		Help:    "Latency of optimize requests",
		Buckets: prometheus.DefBuckets,
	})

	// Optimize requests by outcome
	optimizeRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dorifit_optimize_requests_total",
		Help: "Total number of optimize requests by outcome",
	}, []string{"outcome"})

	catalogLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dorifit_catalog_cache_lookups_total",
		Help: "Master-data cache lookups by result",
	}, []string{"result"})

	rateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dorifit_rate_limited_requests_total",
		Help: "Requests rejected by the rate limiter",
	})
)

// RegisterMetrics registers the API collectors with reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		optimizeLatency,
		optimizeRequests,
		catalogLookups,
		rateLimited,
	)
}
