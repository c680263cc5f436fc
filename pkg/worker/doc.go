// Package worker provides a generic, thread-safe worker pool for concurrent task processing.
//
// # Overview
//
// The worker package implements a bounded worker pool with:
//   - Generic type support (Go 1.18+) for type-safe work processing
//   - Bounded queues with backpressure (non-blocking submit)
//   - Context-aware cancellation and graceful shutdown
//   - Dual-tracking observability (always-on statistics + optional Prometheus metrics)
//   - Configurable worker count and queue sizing
//
// In this platform the pool carries two workloads: graph query requests in
// the query service and relationship invalidation events in the consistency
// coordinator. Both want the same property, a hard bound on in-flight work
// with an explicit overload signal instead of unbounded queueing.
//
// # Core Concepts
//
// Worker Pool Pattern:
//
// The pool manages a fixed number of goroutines (workers) that process work
// items from a bounded channel (queue). This provides:
//   - Resource control: Fixed memory and goroutine overhead
//   - Backpressure: Queue fills when workers can't keep up
//   - Load distribution: Work items distributed across workers
//   - Observability: Statistics on throughput, failures, and queue depth
//
// Generic Type Safety:
//
// Using Go generics, the pool can process any work type T without type assertions:
//
//	type queryJob struct {
//	    Subject string
//	    Payload []byte
//	    Reply   string
//	}
//
//	pool := worker.NewPool[queryJob](
//	    8,    // workers
//	    512,  // queue size
//	    func(ctx context.Context, job queryJob) error {
//	        // Answer the query
//	        return nil
//	    },
//	)
//
// Dual-Tracking Observability:
//
// Following the platform pattern:
//   - Statistics: ALWAYS tracked using atomic operations (zero-allocation)
//   - Metrics: OPTIONAL Prometheus metrics for external monitoring
//
// Internal observability is always available; Prometheus integration is
// opt-in per pool.
//
// # Architecture Decisions
//
// Non-Blocking Submit with Backpressure:
//
// Submit() uses a non-blocking send (select with default case) rather than
// blocking on a full queue. This provides:
//   - Predictable latency: Callers never block waiting for queue space
//   - Clear semantics: ErrQueueFull indicates system overload
//   - Backpressure signal: Dropped work indicates workers can't keep up
//
// The query service turns ErrQueueFull into a busy reply so the caller can
// retry with backoff, rather than queueing requests whose deadlines would
// expire before a worker reached them.
//
// Context-Based Cancellation:
//
// Workers receive context from Start() and check it on each iteration:
//   - Clean shutdown: In-flight work completes, no new work starts
//   - Timeout enforcement: Caller can use context.WithTimeout
//   - Cancellation propagation: Work processors receive the same context
//
// The processor signature func(context.Context, T) error lets processors
// respect cancellation themselves. Per-item deadlines belong in the
// processor; the pool does not impose one.
//
// Graceful Shutdown with Timeout:
//
// Stop(timeout) provides best-effort graceful shutdown:
//  1. Close work channel (no new submissions)
//  2. Workers drain remaining queue items
//  3. Wait for all workers with timeout
//  4. Return ErrStopTimeout if workers don't finish
//
// # Usage Examples
//
// Basic pool:
//
//	pool := worker.NewPool[*graph.InvalidationEvent](
//	    4,    // workers
//	    256,  // queue holds 256 events
//	    func(ctx context.Context, event *graph.InvalidationEvent) error {
//	        return coordinator.Apply(ctx, event)
//	    },
//	)
//
//	ctx := context.Background()
//	if err := pool.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Stop(5 * time.Second)
//
//	if err := pool.Submit(event); err != nil {
//	    if errors.Is(err, worker.ErrQueueFull) {
//	        // Overloaded: the event will be redelivered by the stream
//	    }
//	}
//
// With Prometheus metrics:
//
//	import "github.com/c360/biznet/metric"
//
//	registry := metric.NewMetricsRegistry()
//
//	pool := worker.NewPool[queryJob](
//	    8, 512, processQuery,
//	    worker.WithMetricsRegistry[queryJob](registry, "query_pool"),
//	)
//
//	// Metrics exposed:
//	// - query_pool_queue_depth (current queue depth)
//	// - query_pool_utilization (queue depth / queue size)
//	// - query_pool_submitted_total (total submitted)
//	// - query_pool_processed_total (total processed)
//	// - query_pool_failed_total (total failed)
//	// - query_pool_dropped_total (total dropped when queue full)
//	// - query_pool_processing_duration_seconds (histogram by status)
//
// Graceful shutdown:
//
//	if err := pool.Stop(10 * time.Second); err != nil {
//	    if errors.Is(err, worker.ErrStopTimeout) {
//	        log.Println("Workers didn't finish in time")
//	    }
//	}
//
// # Performance Characteristics
//
// Throughput is limited by the processor function, the worker count, and the
// queue size (buffer for bursty traffic). Submit costs roughly a microsecond
// (atomic increment + channel send); the gauges refresh on a one-second tick.
//
// Memory usage is bounded and predictable:
//   - Workers: one goroutine per worker (~8KB stack each)
//   - Queue: queueSize * sizeof(T), allocated once
//   - Statistics: four atomic int64 counters
//
// # Thread Safety
//
// All public methods are safe for concurrent use:
//
//   - Submit(): Non-blocking channel send under the lifecycle mutex
//   - Start()/Stop(): Protected by the lifecycle mutex
//   - Stats(): Atomic loads, no locks required
//
// Lifecycle guarantees:
//   - Start() can only be called once
//   - Submit() fails if not started or already stopped
//   - Stop() is idempotent
//   - Workers complete in-flight work before exiting
//
// # Error Handling
//
// The pool uses plain sentinel errors rather than the platform's error
// classification, because pool errors are programming errors or resource
// exhaustion:
//
//   - ErrPoolNotStarted: Programming error (Submit before Start)
//   - ErrPoolAlreadyStarted: Programming error (Start called twice)
//   - ErrPoolStopped: Expected after Stop()
//   - ErrQueueFull: Resource exhaustion (backpressure signal)
//   - ErrNilProcessor: Programming error (validation failure)
//   - ErrStopTimeout: Resource exhaustion (workers stuck)
//
// Processor functions can return classified errors (Fatal, Transient,
// Invalid) and the pool will count them as failures, but it does not
// interpret them.
//
// # Common Patterns
//
// Retry on queue full:
//
//	import "github.com/c360/biznet/pkg/retry"
//
//	cfg := retry.Quick()
//	err := retry.Do(ctx, cfg, func() error {
//	    return pool.Submit(job)
//	})
//
// Dynamic scaling is NOT supported. Worker count is fixed at pool creation
// for predictable resource usage; create separate pools if workloads need
// different sizing.
//
// # Known Limitations
//
//  1. No per-work-item timeout: Implement in the processor function
//  2. No priority queues: All work processed FIFO
//  3. No work cancellation: Can't cancel individual queued items
//  4. Queue depth metrics: 1-second granularity (ticker-based)
//  5. No dynamic worker scaling: Worker count is fixed
//
// # See Also
//
//   - retry package: For retry logic with exponential backoff
//   - metric package: For platform metrics integration
package worker
