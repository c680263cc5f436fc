package store

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/biznet/metric"
)

// storeMetrics tracks store operation outcomes. All methods are nil-safe
// so the store works without a metrics registry (tests, tools).
type storeMetrics struct {
	ops *prometheus.CounterVec
}

func newStoreMetrics(registry *metric.MetricsRegistry) *storeMetrics {
	if registry == nil {
		return nil
	}

	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netgraph_store_operations_total",
		Help: "Graph store operations by type and outcome",
	}, []string{"operation", "status"})

	// AlreadyRegistered is tolerated by the registry wrapper; a second
	// store in one process shares the counter family.
	_ = registry.RegisterCounterVec("netgraph_store", "operations_total", ops)

	return &storeMetrics{ops: ops}
}

func (sm *storeMetrics) recordOp(operation, status string) {
	if sm == nil || sm.ops == nil {
		return
	}
	sm.ops.WithLabelValues(operation, status).Inc()
}
