// Package metrics defines the prometheus instrumentation for luna.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ToolInvocationsTotal counts tool dispatches by tool name and outcome.
	ToolInvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luna",
			Name:      "tool_invocations_total",
			Help:      "Total number of tool invocations",
		},
		[]string{"tool", "outcome"},
	)

	// FlightQueryDuration observes flight database query latency.
	FlightQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "luna",
			Name:      "flight_query_duration_seconds",
			Help:      "Flight database query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"query"},
	)

	// SearchDuration observes knowledge-base search latency by query kind.
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "luna",
			Name:      "kb_search_duration_seconds",
			Help:      "Knowledge-base search duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"kind"},
	)

	// EmbeddingRequestsTotal counts embedding API calls by model and status.
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luna",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding API requests",
		},
		[]string{"model", "status"},
	)

	// EmbeddingTokensTotal counts tokens consumed by embedding requests.
	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luna",
			Name:      "embedding_tokens_total",
			Help:      "Total number of tokens consumed by embedding requests",
		},
		[]string{"model", "kind"},
	)
)

// Register registers the luna metric vectors. Called once from the
// composition root; no hidden init side effects.
func Register() {
	prometheus.MustRegister(
		ToolInvocationsTotal,
		FlightQueryDuration,
		SearchDuration,
		EmbeddingRequestsTotal,
		EmbeddingTokensTotal,
	)
}
