// Package resultcache memoizes traversal results. It is a typed facade
// over the generic hybrid cache: TTL expiry bounds staleness, the LRU
// bound caps memory, and predicate invalidation lets the consistency
// coordinator evict entries touched by graph mutations.
//
// Cached values are derived, disposable copies; losing the cache is
// always safe because every entry is recomputable from the graph store.
package resultcache

import (
	"context"
	"sync/atomic"

	"github.com/c360/biznet/errors"
	"github.com/c360/biznet/metric"
	"github.com/c360/biznet/pkg/cache"
	"github.com/c360/biznet/processor/netgraph/pathfinder"
)

// Stats is a point-in-time view of cache effectiveness.
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Size    int     `json:"size"`
	HitRate float64 `json:"hit_rate"`
}

// Deps holds result cache dependencies.
type Deps struct {
	MetricsRegistry *metric.MetricsRegistry
	Config          cache.Config
}

// Cache stores computed path and neighborhood results keyed by query
// shape and time bucket. Individual operations are atomic; callers must
// not assume get-miss-then-put is exclusive (duplicate computation under
// concurrent identical misses is accepted and preferred over blocking).
type Cache struct {
	paths cache.Cache[*pathfinder.PathResult]
	hoods cache.Cache[*pathfinder.Neighborhood]

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a result cache. The configuration must describe a bounded
// strategy; the default is hybrid (TTL + LRU).
func New(ctx context.Context, deps Deps) (*Cache, error) {
	cfg := deps.Config
	if cfg.Strategy == "" {
		cfg = cache.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "ResultCache", "New", "cache config validation")
	}

	pathOpts := []cache.Option[*pathfinder.PathResult]{}
	hoodOpts := []cache.Option[*pathfinder.Neighborhood]{}
	if deps.MetricsRegistry != nil {
		pathOpts = append(pathOpts,
			cache.WithMetrics[*pathfinder.PathResult](deps.MetricsRegistry, "netgraph_results_path"))
		hoodOpts = append(hoodOpts,
			cache.WithMetrics[*pathfinder.Neighborhood](deps.MetricsRegistry, "netgraph_results_hood"))
	}

	paths, err := cache.NewFromConfig(ctx, cfg, pathOpts...)
	if err != nil {
		return nil, errors.WrapTransient(err, "ResultCache", "New", "path cache creation")
	}
	hoods, err := cache.NewFromConfig(ctx, cfg, hoodOpts...)
	if err != nil {
		_ = paths.Close()
		return nil, errors.WrapTransient(err, "ResultCache", "New", "neighborhood cache creation")
	}

	return &Cache{paths: paths, hoods: hoods}, nil
}

// GetPath returns the cached path result for key, if present.
func (c *Cache) GetPath(key Key) (*pathfinder.PathResult, bool) {
	result, ok := c.paths.Get(key.String())
	c.count(ok)
	return result, ok
}

// GetNeighborhood returns the cached neighborhood for key, if present.
func (c *Cache) GetNeighborhood(key Key) (*pathfinder.Neighborhood, bool) {
	hood, ok := c.hoods.Get(key.String())
	c.count(ok)
	return hood, ok
}

// PutPath stores a path result. An existing entry computed later than
// this one is kept: last write wins by computation time, not call
// order, so racing writers cannot replace fresh data with stale.
func (c *Cache) PutPath(key Key, result *pathfinder.PathResult) {
	if result == nil {
		return
	}
	if existing, ok := c.paths.Get(key.String()); ok && existing.ComputedAt.After(result.ComputedAt) {
		return
	}
	_, _ = c.paths.Set(key.String(), result)
}

// PutNeighborhood stores a neighborhood result under the same freshness
// guard as PutPath.
func (c *Cache) PutNeighborhood(key Key, hood *pathfinder.Neighborhood) {
	if hood == nil {
		return
	}
	if existing, ok := c.hoods.Get(key.String()); ok && existing.ComputedAt.After(hood.ComputedAt) {
		return
	}
	_, _ = c.hoods.Set(key.String(), hood)
}

// InvalidateMatching removes every entry whose decoded key matches the
// predicate and returns how many were evicted. Keys that fail to decode
// are evicted too: an unrecognizable entry cannot be proven unaffected.
func (c *Cache) InvalidateMatching(match func(Key) bool) int {
	pred := func(raw string) bool {
		key, ok := parseKey(raw)
		if !ok {
			return true
		}
		return match(key)
	}

	evicted := 0
	if n, err := c.paths.DeleteFunc(pred); err == nil {
		evicted += n
	}
	if n, err := c.hoods.DeleteFunc(pred); err == nil {
		evicted += n
	}
	return evicted
}

// Invalidate removes a single entry. The next get for the key misses.
func (c *Cache) Invalidate(key Key) {
	switch key.Kind {
	case KindNeighborhood:
		_, _ = c.hoods.Delete(key.String())
	default:
		_, _ = c.paths.Delete(key.String())
	}
}

// Clear drops every cached result.
func (c *Cache) Clear() {
	_ = c.paths.Clear()
	_ = c.hoods.Clear()
}

// Stats returns hit/miss counts across both result families.
func (c *Cache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	s := Stats{
		Hits:   hits,
		Misses: misses,
		Size:   c.paths.Size() + c.hoods.Size(),
	}
	if total > 0 {
		s.HitRate = float64(hits) / float64(total)
	}
	return s
}

// Close stops background sweepers and releases resources.
func (c *Cache) Close() error {
	pathErr := c.paths.Close()
	hoodErr := c.hoods.Close()
	if pathErr != nil {
		return pathErr
	}
	return hoodErr
}

func (c *Cache) count(hit bool) {
	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
}
