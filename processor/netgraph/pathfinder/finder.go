// Package pathfinder computes bounded-depth traversals over the business
// network: best-path queries between two businesses and k-hop
// neighborhood expansions.
//
// Path selection policy, in order: fewest hops, then maximum aggregate
// edge weight (sum), then lexicographically smallest node-id sequence.
// The policy is deterministic: repeated runs over the same snapshot
// always return the same path.
//
// Cost: BFS is level-synchronous and each node's adjacency is capped at
// NeighborCap highest-weight edges, so the worst case is
// O(NeighborCap^depth) bounded by the depth ceiling. MaxVisited aborts
// traversals that still blow past the expected network size.
package pathfinder

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/c360/biznet/errors"
	"github.com/c360/biznet/graph"
)

// Store is the read surface the finder traverses. Both *store.Manager
// and *store.Snapshot satisfy it; queries should pass a snapshot so one
// traversal never sees two versions of the same node.
type Store interface {
	GetNode(ctx context.Context, id string) (*graph.NodeState, error)
	GetNeighbors(ctx context.Context, id string) ([]graph.Neighbor, error)
}

// Config bounds traversal cost.
type Config struct {
	// DefaultMaxDepth is applied when a query omits max_depth.
	DefaultMaxDepth int `json:"default_max_depth"`

	// DepthCeiling is the hard upper bound on max_depth. Requests above
	// it fail with ErrInvalidDepth; the ceiling keeps worst-case cost
	// bounded regardless of caller input.
	DepthCeiling int `json:"depth_ceiling"`

	// NeighborCap truncates each node's adjacency to its highest-weight
	// edges during expansion. Businesses are expected to stay under
	// ~100 relationships; the cap contains the ones that do not.
	NeighborCap int `json:"neighbor_cap"`

	// MaxVisited aborts a traversal that settles more nodes than this.
	MaxVisited int `json:"max_visited"`
}

// DefaultConfig returns the standard traversal bounds.
func DefaultConfig() Config {
	return Config{
		DefaultMaxDepth: 3,
		DepthCeiling:    6,
		NeighborCap:     100,
		MaxVisited:      10_000,
	}
}

// Validate checks the configuration is internally consistent.
func (c Config) Validate() error {
	if c.DepthCeiling <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "PathFinder", "Validate",
			fmt.Sprintf("depth_ceiling must be positive, got %d", c.DepthCeiling))
	}
	if c.DefaultMaxDepth <= 0 || c.DefaultMaxDepth > c.DepthCeiling {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "PathFinder", "Validate",
			fmt.Sprintf("default_max_depth must be in [1,%d], got %d", c.DepthCeiling, c.DefaultMaxDepth))
	}
	if c.NeighborCap <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "PathFinder", "Validate",
			fmt.Sprintf("neighbor_cap must be positive, got %d", c.NeighborCap))
	}
	if c.MaxVisited <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "PathFinder", "Validate",
			fmt.Sprintf("max_visited must be positive, got %d", c.MaxVisited))
	}
	return nil
}

// PathResult is the outcome of a path query. Immutable once computed.
// Found false means the pair is disconnected within the depth bound,
// which is an empty result, not an error.
type PathResult struct {
	Nodes           []string                 `json:"nodes,omitempty"`
	Edges           []graph.RelationshipEdge `json:"edges,omitempty"`
	Hops            int                      `json:"hops"`
	AggregateWeight float64                  `json:"aggregate_weight"`
	Found           bool                     `json:"found"`
	ComputedAt      time.Time                `json:"computed_at"`
}

// NeighborhoodMember is one business reachable from the source, with its
// hop distance and the aggregate weight of the best path to it.
type NeighborhoodMember struct {
	ID         string   `json:"id"`
	Distance   int      `json:"distance"`
	BestWeight float64  `json:"best_weight"`
	Path       []string `json:"path"`
}

// Neighborhood is the outcome of a k-hop expansion. Members are sorted
// by distance, then id; the source itself is excluded.
type Neighborhood struct {
	Source     string               `json:"source"`
	MaxDepth   int                  `json:"max_depth"`
	Members    []NeighborhoodMember `json:"members"`
	ComputedAt time.Time            `json:"computed_at"`
}

// Deps holds finder dependencies.
type Deps struct {
	Store  Store
	Logger *slog.Logger
	Config Config
}

// Finder runs bounded-depth traversals. Finders are stateless between
// calls and safe for concurrent use.
type Finder struct {
	store  Store
	config Config
	logger *slog.Logger
}

// NewFinder creates a path finder over the given store view.
func NewFinder(deps Deps) (*Finder, error) {
	if deps.Store == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "PathFinder", "NewFinder",
			"store is required")
	}
	if deps.Config.DepthCeiling == 0 {
		deps.Config = DefaultConfig()
	}
	if err := deps.Config.Validate(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &Finder{
		store:  deps.Store,
		config: deps.Config,
		logger: deps.Logger.With("component", "netgraph.pathfinder"),
	}, nil
}

// Config returns the finder's traversal bounds.
func (f *Finder) Config() Config {
	return f.config
}

// FindPath computes the best path from source to target within maxDepth
// hops under the selection policy. A disconnected pair yields
// Found=false with no error. The context deadline bounds the traversal;
// on expiry the partial state is discarded and ErrQueryTimeout returned.
func (f *Finder) FindPath(ctx context.Context, source, target string, maxDepth int) (*PathResult, error) {
	return f.findPath(ctx, f.store, source, target, maxDepth)
}

// FindPathOn is FindPath against an explicit store view (typically a
// per-query snapshot).
func (f *Finder) FindPathOn(ctx context.Context, view Store, source, target string, maxDepth int) (*PathResult, error) {
	return f.findPath(ctx, view, source, target, maxDepth)
}

func (f *Finder) findPath(ctx context.Context, view Store, source, target string, maxDepth int) (*PathResult, error) {
	if err := f.validateDepth(maxDepth); err != nil {
		return nil, err
	}
	if _, err := view.GetNode(ctx, source); err != nil {
		return nil, err
	}

	if source == target {
		// Trivial zero-length path.
		return &PathResult{
			Nodes:      []string{source},
			Found:      true,
			ComputedAt: time.Now().UTC(),
		}, nil
	}

	if _, err := view.GetNode(ctx, target); err != nil {
		return nil, err
	}

	settled, _, err := f.traverse(ctx, view, source, maxDepth, target)
	if err != nil {
		return nil, err
	}

	state, ok := settled[target]
	if !ok {
		return &PathResult{Found: false, ComputedAt: time.Now().UTC()}, nil
	}

	return &PathResult{
		Nodes:           state.nodes,
		Edges:           state.edges,
		Hops:            len(state.edges),
		AggregateWeight: state.weight,
		Found:           true,
		ComputedAt:      time.Now().UTC(),
	}, nil
}

// Neighborhood computes every business reachable from source within
// maxDepth hops, annotated with hop distance and best path weight.
func (f *Finder) Neighborhood(ctx context.Context, source string, maxDepth int) (*Neighborhood, error) {
	return f.neighborhood(ctx, f.store, source, maxDepth)
}

// NeighborhoodOn is Neighborhood against an explicit store view.
func (f *Finder) NeighborhoodOn(ctx context.Context, view Store, source string, maxDepth int) (*Neighborhood, error) {
	return f.neighborhood(ctx, view, source, maxDepth)
}

func (f *Finder) neighborhood(ctx context.Context, view Store, source string, maxDepth int) (*Neighborhood, error) {
	if err := f.validateDepth(maxDepth); err != nil {
		return nil, err
	}
	if _, err := view.GetNode(ctx, source); err != nil {
		return nil, err
	}

	settled, depths, err := f.traverse(ctx, view, source, maxDepth, "")
	if err != nil {
		return nil, err
	}

	members := make([]NeighborhoodMember, 0, len(settled)-1)
	for id, state := range settled {
		if id == source {
			continue
		}
		members = append(members, NeighborhoodMember{
			ID:         id,
			Distance:   depths[id],
			BestWeight: state.weight,
			Path:       state.nodes,
		})
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Distance != members[j].Distance {
			return members[i].Distance < members[j].Distance
		}
		return members[i].ID < members[j].ID
	})

	return &Neighborhood{
		Source:     source,
		MaxDepth:   maxDepth,
		Members:    members,
		ComputedAt: time.Now().UTC(),
	}, nil
}

func (f *Finder) validateDepth(maxDepth int) error {
	if maxDepth <= 0 || maxDepth > f.config.DepthCeiling {
		return errors.WrapInvalid(errors.ErrInvalidDepth, "PathFinder", "validateDepth",
			fmt.Sprintf("max_depth must be in [1,%d], got %d", f.config.DepthCeiling, maxDepth))
	}
	return nil
}

// pathState is the best-known path to a node at its BFS depth.
type pathState struct {
	nodes  []string
	edges  []graph.RelationshipEdge
	weight float64
}

// betterPath reports whether a beats b at equal hop count: higher
// aggregate weight first, then the lexicographically smaller sequence.
func betterPath(a, b pathState) bool {
	if a.weight != b.weight {
		return a.weight > b.weight
	}
	return lessSequence(a.nodes, b.nodes)
}

func lessSequence(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// traverse runs level-synchronous BFS from source up to maxDepth hops.
// Nodes settle at their first-seen depth with the best path under the
// policy; weight sums are prefix-optimal, so per-level bests compose
// into the overall best equal-hop path. With stopAt set, traversal ends
// as soon as that node's level settles (fewest hops wins).
func (f *Finder) traverse(
	ctx context.Context,
	view Store,
	source string,
	maxDepth int,
	stopAt string,
) (map[string]pathState, map[string]int, error) {
	settled := map[string]pathState{
		source: {nodes: []string{source}},
	}
	depths := map[string]int{source: 0}
	frontier := []string{source}
	visited := 1

	for depth := 1; depth <= maxDepth; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, errors.Wrap(errors.ErrQueryTimeout, "PathFinder", "traverse",
				fmt.Sprintf("deadline exceeded at depth %d: %v", depth, err))
		}

		next := make(map[string]pathState)
		for _, id := range frontier {
			current := settled[id]
			neighbors, err := f.expansion(ctx, view, id)
			if err != nil {
				return nil, nil, err
			}
			for _, nb := range neighbors {
				if _, done := settled[nb.ID]; done {
					continue
				}
				candidate := pathState{
					nodes:  appendCopy(current.nodes, nb.ID),
					edges:  appendEdgeCopy(current.edges, nb.Edge),
					weight: current.weight + nb.Edge.Weight,
				}
				if existing, ok := next[nb.ID]; !ok || betterPath(candidate, existing) {
					next[nb.ID] = candidate
				}
			}
		}

		if len(next) == 0 {
			break
		}

		frontier = frontier[:0]
		for id, state := range next {
			settled[id] = state
			depths[id] = depth
			frontier = append(frontier, id)
		}
		sort.Strings(frontier)
		visited += len(next)

		if visited > f.config.MaxVisited {
			return nil, nil, errors.WrapTransient(errors.ErrTraversalTruncated, "PathFinder", "traverse",
				fmt.Sprintf("visited %d nodes at depth %d, max %d", visited, depth, f.config.MaxVisited))
		}

		if stopAt != "" {
			if _, found := next[stopAt]; found {
				return settled, depths, nil
			}
		}
	}

	return settled, depths, nil
}

// expansion returns the adjacency of id prepared for traversal: parallel
// edges collapsed to the best record per neighbor, truncated to the
// NeighborCap highest-weight entries, in ascending id order.
func (f *Finder) expansion(ctx context.Context, view Store, id string) ([]graph.Neighbor, error) {
	neighbors, err := view.GetNeighbors(ctx, id)
	if err != nil {
		return nil, err
	}

	// Neighbors arrive sorted by (id, relationship type); keep the
	// highest-weight edge per neighbor, first-seen on weight ties.
	collapsed := neighbors[:0]
	for _, nb := range neighbors {
		n := len(collapsed)
		if n > 0 && collapsed[n-1].ID == nb.ID {
			if nb.Edge.Weight > collapsed[n-1].Edge.Weight {
				collapsed[n-1] = nb
			}
			continue
		}
		collapsed = append(collapsed, nb)
	}

	if len(collapsed) > f.config.NeighborCap {
		f.logger.Debug("neighbor cap truncation",
			"business", id,
			"neighbors", len(collapsed),
			"cap", f.config.NeighborCap)
		// Keep the strongest relationships; stable sort preserves id
		// order among equal weights, then restore id order for
		// deterministic expansion.
		sort.SliceStable(collapsed, func(i, j int) bool {
			return collapsed[i].Edge.Weight > collapsed[j].Edge.Weight
		})
		collapsed = collapsed[:f.config.NeighborCap]
		sort.Slice(collapsed, func(i, j int) bool {
			return collapsed[i].ID < collapsed[j].ID
		})
	}

	return collapsed, nil
}

func appendCopy(base []string, next string) []string {
	out := make([]string, len(base)+1)
	copy(out, base)
	out[len(base)] = next
	return out
}

func appendEdgeCopy(base []graph.RelationshipEdge, next graph.RelationshipEdge) []graph.RelationshipEdge {
	out := make([]graph.RelationshipEdge, len(base)+1)
	copy(out, base)
	out[len(base)] = next
	return out
}
