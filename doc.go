// Package biznet provides a NATS-based query service for business
// relationship networks.
//
// # Overview
//
// Biznet models businesses and weighted relationships between them as a
// graph stored in NATS JetStream KV, and answers connectivity questions
// over NATS request/reply:
//
//   - Path queries: shortest (then strongest) connection between two
//     businesses within a bounded hop depth
//   - Neighborhood queries: every business reachable from a starting
//     point within N hops
//   - Business profile queries: a single business with its incident
//     relationships
//
// Relationship strength derives from transaction volume, so "strongest"
// paths prefer high-volume trading relationships. Query results are
// cached with time-bucketed keys; a JetStream-backed coordinator evicts
// affected cache entries when relationships change.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│       network-graph component       │  Query + mutation API
//	│  (queries, mutations, health loop)  │  over NATS request/reply
//	└──────┬────────────┬─────────────────┘
//	       │            │
//	┌──────▼─────┐ ┌────▼────────────────┐
//	│ pathfinder │ │ resultcache         │  Bounded BFS over a
//	│ (BFS over  │ │ (TTL + LRU, keyed   │  snapshot view; typed
//	│  snapshot) │ │  by query + hour)   │  cache facade
//	└──────┬─────┘ └────▲────────────────┘
//	       │            │ invalidation
//	┌──────▼─────┐ ┌────┴────────────────┐
//	│   store    │ │ coordinator         │  KV adapter with CAS
//	│ (JetStream │ │ (durable consumer   │  retries; worker pool
//	│  KV nodes) │ │  on NETWORK_EVENTS) │  driven eviction
//	└────────────┘ └─────────────────────┘
//
// # Subjects
//
// Queries (request/reply):
//   - network.query.path: path between two businesses
//   - network.query.neighborhood: reachable set within N hops
//   - network.query.business: single business profile
//
// Mutations (request/reply):
//   - network.mutation.relationship.apply: create or update a relationship
//   - network.mutation.relationship.remove: delete a relationship
//   - network.mutation.business.upsert: create or update a business
//
// Events (JetStream, at-least-once):
//   - network.event.>: relationship and business change notifications
//     consumed by the cache coordinator
//
// Health:
//   - network.health.network-graph: periodic component health reports
//
// # Framework Packages
//
// Component system:
//   - component: Component lifecycle, registry, port definitions
//   - componentregistry: Registration of the network-graph component
//
// Infrastructure:
//   - natsclient: NATS connection management (core, JetStream, KV)
//   - config: Configuration loading and validation
//   - metric: Prometheus metrics
//   - errors: Structured error handling with classification
//   - health: Health check system
//
// Domain:
//   - graph: Business node, relationship edge, and wire types
//   - processor/netgraph: The network-graph component
//   - processor/netgraph/store: JetStream KV graph store adapter
//   - processor/netgraph/pathfinder: Bounded-depth weighted BFS
//   - processor/netgraph/resultcache: Typed query result cache
//   - processor/netgraph/coordinator: Cache invalidation coordinator
//
// Utilities:
//   - pkg/cache: TTL + LRU hybrid caching
//   - pkg/retry: Retry policies
//   - pkg/worker: Worker pools
//   - testutil: In-memory KV fake for unit tests
//
// # Usage
//
// Basic setup:
//
//	// Create NATS client
//	natsClient, _ := natsclient.NewClient("nats://localhost:4222")
//	natsClient.Connect(ctx)
//
//	// Create component registry
//	registry := component.NewRegistry()
//	componentregistry.Register(registry)
//
//	// Create the network-graph component from config
//	instance, _ := registry.CreateComponent("network-graph-main", componentConfig, deps)
//	lc := instance.(component.LifecycleComponent)
//	lc.Initialize()
//	lc.Start(ctx)
//
// # Design Principles
//
// Testability:
//   - Explicit dependencies (no globals)
//   - Store adapter behind a small KV interface
//   - Integration tests with testcontainers
//
// Consistency:
//   - CAS writes with retry on the KV store
//   - Canonical edge ordering keeps symmetric records in sync
//   - Cache staleness bounded by TTL plus eager event-driven eviction
//
// # Binary
//
// Build and run biznet:
//
//	task build
//	./bin/biznet --config configs/example.json
package biznet
