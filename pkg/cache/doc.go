// Package cache provides high-performance, thread-safe caching implementations with
// multiple eviction policies, built-in statistics tracking, and optional Prometheus
// metrics integration.
//
// # Overview
//
// The cache package offers three cache implementations with different eviction strategies:
//   - LRU: Least Recently Used eviction
//   - TTL: Time-To-Live expiration
//   - Hybrid: Combines LRU and TTL policies
//
// Every strategy bounds the cache by size, by time, or by both. There is no
// store-forever variant: a query result cache that never evicts turns into a
// memory leak under an open-ended key space (every id pair, depth, and time
// bucket produces a distinct key).
//
// All implementations are generic, thread-safe, and provide comprehensive observability
// through always-on statistics and optional metrics.
//
// # Quick Start
//
// LRU cache with capacity limit:
//
//	cache, err := cache.NewLRU[*graph.NodeState](1000)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// TTL cache with expiration:
//
//	cache, err := cache.NewTTL[*graph.BusinessNode](ctx, 30*time.Minute, 5*time.Minute)
//
// Hybrid cache with both LRU and TTL:
//
//	cache, err := cache.NewHybrid[[]byte](ctx, 5000, 10*time.Minute, 1*time.Minute,
//		cache.WithMetrics[[]byte](registry, "result_cache"),
//		cache.WithEvictionCallback[[]byte](func(key string, value []byte) {
//			log.Printf("Evicted: %s", key)
//		}),
//	)
//
// Config-driven construction (the usual path inside components):
//
//	c, err := cache.NewFromConfig[PathResult](ctx, cfg.Cache,
//		cache.WithMetrics[PathResult](registry, "netgraph"))
//
// # Cache Types and Eviction Policies
//
// LRU Cache (Capacity-Based):
//
// Evicts least recently used items when maximum capacity is reached. Best for
// fixed-size caches where recent access patterns indicate importance.
//
//	cache, _ := cache.NewLRU[V](maxSize)
//
// TTL Cache (Time-Based):
//
// Items expire after a time-to-live period. Background cleanup goroutine removes
// expired items. Best for time-sensitive data like node snapshots.
//
//	cache, _ := cache.NewTTL[V](ctx, ttl, cleanupInterval)
//
// Hybrid Cache (Capacity + Time):
//
// Combines LRU and TTL - items are evicted if they're either least recently used
// OR expired. Best for production caches requiring both size and time limits.
// The query result cache runs on this strategy.
//
//	cache, _ := cache.NewHybrid[V](ctx, maxSize, ttl, cleanupInterval)
//
// # Targeted Invalidation
//
// DeleteFunc removes every entry whose key matches a caller-supplied
// predicate in one pass under the lock:
//
//	removed, _ := c.DeleteFunc(func(key string) bool {
//		return strings.Contains(key, "|"+businessID+"|")
//	})
//
// This exists for event-driven invalidation: when a relationship changes,
// the coordinator knows which business ids are affected but not which
// depth/time-bucket key variants were written. Scanning keys is O(n) over
// cache entries, which is acceptable because invalidation is rare relative
// to reads and the caches are size-bounded.
//
// # Observability Architecture
//
// The cache package implements a dual-tracking pattern for comprehensive observability:
//
// Statistics (Always On):
//   - Tracks all operations using atomic counters
//   - Zero configuration required
//   - Available via cache.Stats()
//   - Provides computed metrics (hit ratio, requests/sec)
//   - No external dependencies
//
// Prometheus Metrics (Optional):
//   - Enabled via WithMetrics() option
//   - Exports to Prometheus for time-series monitoring
//   - Includes component labels for instance identification
//   - Standard metric types (Counter, Gauge)
//
// Statistics work without Prometheus so a cache can always answer "what is
// your hit ratio" in tests and debug sessions; metrics feed dashboards and
// alerting in deployments that run the exporter. Both are cheap (atomic
// increments) and tracked independently.
//
// # Thread Safety
//
// All cache implementations are safe for concurrent use. Eviction callbacks
// are invoked outside the cache lock, so a callback may touch the cache
// again without deadlocking, and a concurrent Get may briefly observe a
// key already scheduled for eviction.
//
// # Context and Cleanup
//
// TTL and Hybrid caches start a background cleanup goroutine bound to the
// constructor's context. Cancel the context or call Close() to stop it;
// Close() waits for the goroutine to exit with a 5s cap.
package cache
