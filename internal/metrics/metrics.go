// Package metrics defines Prometheus metrics for the atlas server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "atlas_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	TraversalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "atlas_traversal_duration_seconds",
			Help:    "Ownership network traversal duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"start_type", "direction"},
	)

	TraversalNodes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "atlas_traversal_nodes",
			Help:    "Nodes returned per traversal",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	TraversalsTruncated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "atlas_traversals_truncated_total",
			Help: "Traversals that returned a partial graph",
		},
	)

	ResolverCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_resolver_calls_total",
			Help: "Adjacency resolver calls by node type, direction and outcome",
		},
		[]string{"node_type", "direction", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		TraversalDuration, TraversalNodes, TraversalsTruncated,
		ResolverCalls,
	)
}
