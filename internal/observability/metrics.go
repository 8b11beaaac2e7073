package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsdesk_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// TransitionsTotal counts workflow transitions by entity and outcome.
	// Outcome is "accepted" or the error code of the rejection.
	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsdesk_workflow_transitions_total",
		Help: "Total number of workflow transition attempts by entity and outcome",
	}, []string{"entity", "outcome"})

	// SweepRunsTotal counts eager scheduled-publication sweep runs.
	SweepRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsdesk_sweep_runs_total",
		Help: "Total number of scheduled-publication sweep runs",
	})

	// SweepPublishedTotal counts rows published by the sweep.
	SweepPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsdesk_sweep_published_total",
		Help: "Total number of articles published by the sweep",
	})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "newsdesk_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// RecordTransition records a workflow transition outcome.
func RecordTransition(entity, outcome string) {
	TransitionsTotal.WithLabelValues(entity, outcome).Inc()
}
