// Package store owns read/write access to the persisted business graph.
// Node states live in a JetStream KV bucket keyed by business id; every
// edge is written symmetrically into both endpoint states so traversal
// can walk it from either side. Writes go through revision-checked
// updates, which linearizes concurrent writers per key and therefore per
// unordered pair.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/c360/biznet/errors"
	"github.com/c360/biznet/graph"
	"github.com/c360/biznet/metric"
	"github.com/c360/biznet/natsclient"
	"github.com/c360/biznet/pkg/cache"
	"github.com/c360/biznet/pkg/retry"
)

// BucketName is the KV bucket holding node states.
const BucketName = "BUSINESS_NODES"

// businessIDRegex validates business id format: opaque slug, no KV
// key metacharacters. Pipe is additionally excluded because cache keys
// join fields with it.
var businessIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,127}$`)

// ValidateBusinessID validates that a business id is usable as a KV key.
func ValidateBusinessID(id string) error {
	if id == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "GraphStore", "ValidateBusinessID",
			"business id cannot be empty")
	}
	if !businessIDRegex.MatchString(id) {
		return errors.WrapInvalid(errors.ErrInvalidData, "GraphStore", "ValidateBusinessID",
			fmt.Sprintf("invalid business id %q: letters, digits, dot, dash, underscore only (max 128)", id))
	}
	return nil
}

// KV is the slice of the natsclient KV surface the store uses. It is an
// interface so unit tests can run against an in-memory implementation.
type KV interface {
	Get(ctx context.Context, key string) (*natsclient.KVEntry, error)
	UpdateWithRetry(ctx context.Context, key string, updateFn func(current []byte) ([]byte, error)) error
}

// Dependencies holds everything a store manager needs.
type Dependencies struct {
	KV              KV
	MetricsRegistry *metric.MetricsRegistry
	Logger          *slog.Logger
	Config          Config
}

// Manager is the graph store adapter: canonical node/edge state behind a
// consistent read/write contract. The L1 cache only holds derived read
// copies; the KV bucket remains the source of truth.
type Manager struct {
	kv        KV
	nodeCache cache.Cache[*graph.NodeState]
	logger    *slog.Logger
	config    Config
	metrics   *storeMetrics

	readRetry retry.Config
}

// NewManager creates a graph store manager.
func NewManager(deps Dependencies) (*Manager, error) {
	if deps.KV == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "GraphStore", "NewManager",
			"KV bucket is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Config.NodeCacheSize == 0 {
		deps.Config = DefaultConfig()
	}
	if err := deps.Config.Validate(); err != nil {
		return nil, err
	}

	cacheOpts := []cache.Option[*graph.NodeState]{}
	if deps.MetricsRegistry != nil {
		cacheOpts = append(cacheOpts,
			cache.WithMetrics[*graph.NodeState](deps.MetricsRegistry, "netgraph_store_nodes"))
	}
	nodeCache, err := cache.NewLRU[*graph.NodeState](deps.Config.NodeCacheSize, cacheOpts...)
	if err != nil {
		return nil, errors.WrapTransient(err, "GraphStore", "NewManager", "node cache creation")
	}

	readRetry := errors.DefaultRetryConfig().ToRetryConfig()
	readRetry.RetryIf = func(err error) bool {
		// Missing keys and bad data never heal on retry.
		return errors.IsTransient(err) && !errors.IsNotFound(err) && !errors.IsInvalid(err)
	}

	return &Manager{
		kv:        deps.KV,
		nodeCache: nodeCache,
		logger:    deps.Logger.With("component", "netgraph.store"),
		config:    deps.Config,
		metrics:   newStoreMetrics(deps.MetricsRegistry),
		readRetry: readRetry,
	}, nil
}

// GetNode returns the node state for a business id. Returns
// errors.ErrEntityNotFound (wrapped) when the id is absent. The returned
// state is shared with the cache; callers must not mutate it.
func (m *Manager) GetNode(ctx context.Context, id string) (*graph.NodeState, error) {
	if err := ValidateBusinessID(id); err != nil {
		return nil, err
	}

	if state, ok := m.nodeCache.Get(id); ok {
		m.metrics.recordOp("get_node", "cache_hit")
		return state, nil
	}

	state, err := m.readNode(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			m.metrics.recordOp("get_node", "not_found")
		} else {
			m.metrics.recordOp("get_node", "error")
		}
		return nil, err
	}

	m.nodeCache.Set(id, state)
	m.metrics.recordOp("get_node", "ok")
	return state, nil
}

// GetNeighbors returns the adjacent businesses of id with the edges that
// reach them, in deterministic order.
func (m *Manager) GetNeighbors(ctx context.Context, id string) ([]graph.Neighbor, error) {
	state, err := m.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}
	return state.Neighbors(), nil
}

// readNode fetches and decodes a node state from KV. Transient failures
// are retried with jittered backoff; not-found propagates immediately.
func (m *Manager) readNode(ctx context.Context, id string) (*graph.NodeState, error) {
	return retry.DoWithResult(ctx, m.readRetry, func(ctx context.Context) (*graph.NodeState, error) {
		entry, err := m.kv.Get(ctx, id)
		if err != nil {
			if natsclient.IsKVNotFoundError(err) {
				return nil, errors.Wrap(errors.ErrEntityNotFound, "GraphStore", "readNode",
					fmt.Sprintf("business %s", id))
			}
			return nil, errors.WrapTransient(err, "GraphStore", "readNode", "KV read for "+id)
		}

		var state graph.NodeState
		if err := json.Unmarshal(entry.Value, &state); err != nil {
			return nil, errors.WrapInvalid(errors.ErrDecodeFailed, "GraphStore", "readNode",
				fmt.Sprintf("corrupt node state for %s: %v", id, err))
		}
		return &state, nil
	})
}

// PutNode creates or replaces a business node document. Existing edges
// and the original creation timestamp are preserved on update; the id is
// immutable. Returns true when the node was newly created.
func (m *Manager) PutNode(ctx context.Context, node graph.BusinessNode) (bool, error) {
	if err := ValidateBusinessID(node.ID); err != nil {
		return false, err
	}

	created := false
	now := time.Now().UTC()

	err := m.kv.UpdateWithRetry(ctx, node.ID, func(current []byte) ([]byte, error) {
		var state graph.NodeState
		if len(current) == 0 {
			created = true
			node.CreatedAt = now
			state = graph.NodeState{Node: node}
		} else {
			if err := json.Unmarshal(current, &state); err != nil {
				return nil, errors.WrapInvalid(errors.ErrDecodeFailed, "GraphStore", "PutNode",
					fmt.Sprintf("corrupt node state for %s: %v", node.ID, err))
			}
			created = false
			node.CreatedAt = state.Node.CreatedAt
		}
		node.UpdatedAt = now
		state.Node = node
		state.Version++
		state.UpdatedAt = now
		return m.marshalState(&state)
	})
	if err != nil {
		m.metrics.recordOp("put_node", "error")
		return false, errors.Wrap(err, "GraphStore", "PutNode", "node write for "+node.ID)
	}

	m.nodeCache.Delete(node.ID)
	m.metrics.recordOp("put_node", "ok")
	return created, nil
}

// UpsertEdge writes a relationship into both endpoint states. With
// overwrite false, an existing active record for the same unordered pair
// and relationship type fails with errors.ErrEdgeConflict. Both endpoint
// businesses must already exist. Returns true when the relationship was
// newly created (no prior record for the pair and type).
func (m *Manager) UpsertEdge(ctx context.Context, edge graph.RelationshipEdge, overwrite bool) (bool, error) {
	edge.Canonicalize()

	if edge.BusinessA == edge.BusinessB {
		return false, errors.WrapInvalid(errors.ErrInvalidData, "GraphStore", "UpsertEdge",
			"relationship endpoints must differ")
	}
	if !edge.RelationshipType.IsValid() {
		return false, errors.WrapInvalid(errors.ErrInvalidData, "GraphStore", "UpsertEdge",
			fmt.Sprintf("unknown relationship_type %q", edge.RelationshipType))
	}
	for _, id := range []string{edge.BusinessA, edge.BusinessB} {
		if _, err := m.GetNode(ctx, id); err != nil {
			return false, err
		}
	}

	pairKey := edge.PairKey()
	created := false

	// Canonical order: A is always written first, so two writers racing
	// on the same pair serialize on the same key.
	for i, id := range []string{edge.BusinessA, edge.BusinessB} {
		first := i == 0
		err := m.kv.UpdateWithRetry(ctx, id, func(current []byte) ([]byte, error) {
			if len(current) == 0 {
				return nil, errors.Wrap(errors.ErrEntityNotFound, "GraphStore", "UpsertEdge",
					fmt.Sprintf("business %s", id))
			}
			var state graph.NodeState
			if err := json.Unmarshal(current, &state); err != nil {
				return nil, errors.WrapInvalid(errors.ErrDecodeFailed, "GraphStore", "UpsertEdge",
					fmt.Sprintf("corrupt node state for %s: %v", id, err))
			}

			write := edge
			if existing, ok := state.FindEdge(pairKey, edge.RelationshipType); ok {
				// The conflict decision is made once, on the first
				// endpoint; the second write always completes so the
				// two states stay symmetric.
				if first && !overwrite {
					return nil, errors.WrapConflict(errors.ErrEdgeConflict, "GraphStore", "UpsertEdge",
						fmt.Sprintf("pair %s type %s", pairKey, edge.RelationshipType))
				}
				write.CreatedAt = existing.CreatedAt
			} else if first {
				created = true
			}

			state.AttachEdge(write)
			state.Version++
			state.UpdatedAt = time.Now().UTC()
			return m.marshalState(&state)
		})
		if err != nil {
			if errors.IsConflict(err) {
				m.metrics.recordOp("upsert_edge", "conflict")
				return false, err
			}
			m.metrics.recordOp("upsert_edge", "error")
			return false, errors.Wrap(err, "GraphStore", "UpsertEdge", "edge write for "+id)
		}
		m.nodeCache.Delete(id)
	}

	m.metrics.recordOp("upsert_edge", "ok")
	return created, nil
}

// DeleteEdge removes the relationship between a pair from both endpoint
// states. An empty relationship type removes every active type for the
// pair. Deleting an absent relationship fails with ErrEntityNotFound.
func (m *Manager) DeleteEdge(ctx context.Context, a, b string, relType graph.RelationshipType) error {
	ca, cb := graph.CanonicalPair(a, b)
	if ca == cb {
		return errors.WrapInvalid(errors.ErrInvalidData, "GraphStore", "DeleteEdge",
			"relationship endpoints must differ")
	}
	pairKey := graph.PairKey(ca, cb)

	for i, id := range []string{ca, cb} {
		first := i == 0
		err := m.kv.UpdateWithRetry(ctx, id, func(current []byte) ([]byte, error) {
			if len(current) == 0 {
				return nil, errors.Wrap(errors.ErrEntityNotFound, "GraphStore", "DeleteEdge",
					fmt.Sprintf("business %s", id))
			}
			var state graph.NodeState
			if err := json.Unmarshal(current, &state); err != nil {
				return nil, errors.WrapInvalid(errors.ErrDecodeFailed, "GraphStore", "DeleteEdge",
					fmt.Sprintf("corrupt node state for %s: %v", id, err))
			}

			removed := state.DetachEdge(pairKey, relType)
			if first && removed == 0 {
				return nil, errors.Wrap(errors.ErrEntityNotFound, "GraphStore", "DeleteEdge",
					fmt.Sprintf("no relationship for pair %s type %q", pairKey, relType))
			}

			state.Version++
			state.UpdatedAt = time.Now().UTC()
			return m.marshalState(&state)
		})
		if err != nil {
			if errors.IsNotFound(err) {
				m.metrics.recordOp("delete_edge", "not_found")
				return err
			}
			m.metrics.recordOp("delete_edge", "error")
			return errors.Wrap(err, "GraphStore", "DeleteEdge", "edge removal for "+id)
		}
		m.nodeCache.Delete(id)
	}

	m.metrics.recordOp("delete_edge", "ok")
	return nil
}

// marshalState serializes a node state, enforcing the size bound.
func (m *Manager) marshalState(state *graph.NodeState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, errors.WrapInvalid(err, "GraphStore", "marshalState", "node state encoding")
	}
	if len(data) > m.config.MaxNodeBytes {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "GraphStore", "marshalState",
			fmt.Sprintf("node state for %s is %d bytes, max %d",
				state.Node.ID, len(data), m.config.MaxNodeBytes))
	}
	return data, nil
}

// Close releases store resources.
func (m *Manager) Close() error {
	return m.nodeCache.Close()
}
