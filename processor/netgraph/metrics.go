package netgraph

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/biznet/metric"
)

// netgraphMetrics is nil-safe: a processor built without a registry
// records nothing.
type netgraphMetrics struct {
	queries   *prometheus.CounterVec
	mutations *prometheus.CounterVec
}

func newNetgraphMetrics(registry *metric.MetricsRegistry) *netgraphMetrics {
	if registry == nil {
		return nil
	}

	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netgraph_queries_total",
		Help: "Queries by subject and outcome",
	}, []string{"subject", "outcome"})

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netgraph_mutations_total",
		Help: "Mutations by operation and outcome",
	}, []string{"operation", "outcome"})

	registry.RegisterCounterVec("netgraph", "netgraph_queries_total", queries)
	registry.RegisterCounterVec("netgraph", "netgraph_mutations_total", mutations)

	return &netgraphMetrics{queries: queries, mutations: mutations}
}

func (m *netgraphMetrics) recordQuery(subject, outcome string) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(subject, outcome).Inc()
}

func (m *netgraphMetrics) recordMutation(operation, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation, outcome).Inc()
}
