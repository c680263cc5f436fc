package coordinator

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/biznet/metric"
)

// coordinatorMetrics is nil-safe: a coordinator built without a registry
// records nothing.
type coordinatorMetrics struct {
	events  *prometheus.CounterVec
	evicted prometheus.Counter
}

func newCoordinatorMetrics(registry *metric.MetricsRegistry) *coordinatorMetrics {
	if registry == nil {
		return nil
	}

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "netgraph_invalidation_events_total",
		Help: "Invalidation events by kind and outcome",
	}, []string{"kind", "outcome"})

	evicted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netgraph_invalidation_evicted_total",
		Help: "Cache entries evicted by invalidation events",
	})

	registry.RegisterCounterVec("netgraph", "netgraph_invalidation_events_total", events)
	registry.RegisterCounter("netgraph", "netgraph_invalidation_evicted_total", evicted)

	return &coordinatorMetrics{events: events, evicted: evicted}
}

func (m *coordinatorMetrics) recordEvent(kind, outcome string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(kind, outcome).Inc()
}

func (m *coordinatorMetrics) recordEvicted(n int) {
	if m == nil || n == 0 {
		return
	}
	m.evicted.Add(float64(n))
}
