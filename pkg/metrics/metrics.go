// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ItemsCreatedTotal tracks listed items.
	ItemsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "items_created_total",
			Help: "Total items listed in the catalog",
		},
		[]string{"theme"},
	)

	// VotesTotal tracks item votes.
	VotesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "item_votes_total",
			Help: "Total votes cast on items",
		},
	)

	// MessagesTotal tracks messages sent, by message type.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_total",
			Help: "Total messages sent",
		},
		[]string{"type"},
	)

	// ExchangesTotal tracks exchange proposals by terminal outcome.
	ExchangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exchanges_total",
			Help: "Total exchange proposals by outcome",
		},
		[]string{"status"},
	)

	// DescribeDuration tracks description generation latency.
	DescribeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "describe_duration_seconds",
			Help:    "Description generation latency",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"provider", "status"},
	)

	// SSEConnectionsActive tracks active SSE connections.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordDescribe records metrics for a description generation call.
func RecordDescribe(provider, status string, duration float64) {
	DescribeDuration.WithLabelValues(provider, status).Observe(duration)
}

// IncrementSSEConnections increments the active SSE connection count.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connection count.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}
