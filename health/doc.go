// Package health provides health monitoring for biznet components
// with thread-safe status tracking and aggregation.
//
// The network-graph processor tracks the health of its internal parts
// (graph store, result cache, consistency coordinator, event publisher)
// and publishes an aggregate report for monitoring and alerting.
//
// # Health States
//
// The package supports three health states:
//   - Healthy: component operating normally
//   - Degraded: component operating with reduced functionality
//   - Unhealthy: component not functioning properly
//
// The three-state model enables nuanced operational responses. A
// degraded coordinator (consumer lagging) may only widen the staleness
// window, while an unhealthy graph store means queries are failing and
// needs immediate attention.
//
// # Core Components
//
// Status: individual component health state containing status level,
// descriptive message, timestamp, optional metrics, and hierarchical
// sub-statuses.
//
// Monitor: thread-safe centralized tracking for multiple component
// health statuses with concurrent read/write access and automatic
// timestamp management.
//
// Helpers: convenience constructors and system-wide aggregation.
//
// # Basic Usage
//
// Creating and tracking component health:
//
//	monitor := health.NewMonitor()
//
//	monitor.UpdateHealthy("graph-store", "KV bucket reachable")
//	monitor.UpdateDegraded("result-cache", "hit rate below threshold")
//	monitor.UpdateUnhealthy("coordinator", "consumer fetch failing")
//
//	if status, exists := monitor.Get("graph-store"); exists {
//	    if status.IsHealthy() {
//	        log.Println("store is healthy")
//	    }
//	}
//
// # Aggregation
//
// Combining component statuses into a single report:
//
//	report := monitor.AggregateHealth("network-graph")
//	if report.IsUnhealthy() {
//	    log.Printf("processor unhealthy: %s", report.Message)
//	}
//
// Aggregation uses worst-case rules:
//   - Any unhealthy component → aggregate unhealthy
//   - Any degraded component (and no unhealthy) → aggregate degraded
//   - All healthy → aggregate healthy
//
// Sub-statuses in the aggregate are sorted by component name so
// successive published reports are stable and diffable.
//
// # Integration with Components
//
// Converting component.HealthStatus to health.Status:
//
//	componentHealth := comp.Health() // component.HealthStatus
//	status := health.FromComponentHealth("network-graph", componentHealth)
//
// Error messages are sanitized during conversion to remove URLs, file
// paths, IP addresses, ports, and credentials before they reach
// dashboards or logs.
//
// # Thread Safety
//
// All Monitor operations are safe for concurrent use. The Monitor uses
// an RWMutex internally so reads proceed concurrently while writes are
// serialized. Status objects are value types; methods like WithMetrics
// and WithSubStatus return copies rather than mutating the receiver.
//
// # Error Handling Philosophy
//
// The health package does not return errors because it represents the
// result of error handling, not part of error propagation. Components
// wrap errors with the biznet/errors package first; the health package
// then sanitizes the message for safe display.
package health
