// Package metrics holds the Prometheus collectors of the budget API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests partitioned by method, route and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latencies
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// ExportsTotal counts generated budget exports by format and outcome
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "budget_exports_total",
			Help: "Total number of budget exports generated",
		},
		[]string{"format", "outcome"},
	)

	// AuthFailuresTotal counts rejected credentials by reason
	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Total number of requests rejected by authentication",
		},
		[]string{"reason"},
	)

	// StoreFailuresTotal counts failed remote store writes by operation
	StoreFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "budget_store_failures_total",
			Help: "Total number of failed budget store operations",
		},
		[]string{"operation"},
	)
)

// Export outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
