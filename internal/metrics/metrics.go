// Package metrics exposes Prometheus collectors for HTTP traffic, engagement
// mutations and the object storage gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidora_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vidora_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vidora_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		},
	)

	// ViewsRecorded counts view events. path is "dedup" (window-checked) or "direct" (video fetch);
	// result is "counted" or "suppressed".
	ViewsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidora_views_recorded_total",
			Help: "View events by increment path and outcome",
		},
		[]string{"path", "result"},
	)

	ReactionToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidora_reaction_toggles_total",
			Help: "Like/dislike toggles by kind and resulting action",
		},
		[]string{"kind", "action"},
	)

	SubscriptionChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidora_subscription_changes_total",
			Help: "Subscribe/unsubscribe calls by action and whether state changed",
		},
		[]string{"action", "changed"},
	)

	StorageOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidora_storage_operations_total",
			Help: "Object storage gateway calls by operation and result",
		},
		[]string{"operation", "result"},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vidora_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// ChangedLabel renders a bool as a metric label value
func ChangedLabel(changed bool) string {
	if changed {
		return "true"
	}
	return "false"
}
