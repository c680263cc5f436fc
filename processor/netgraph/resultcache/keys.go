package resultcache

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind distinguishes the cached result families.
type Kind string

const (
	// KindPath marks a path query result.
	KindPath Kind = "path"
	// KindNeighborhood marks a neighborhood expansion result.
	KindNeighborhood Kind = "hood"
)

// Key identifies one cached query result. The time bucket coarsens the
// key to the UTC hour, so identical queries inside the same hour share
// an entry and stale entries age out across bucket boundaries even
// without explicit invalidation.
type Key struct {
	Kind     Kind
	Source   string
	Target   string // empty for neighborhood keys
	MaxDepth int
	Bucket   int64 // unix hours since epoch
}

// PathKey derives the cache key for a path query at time at.
// The derivation is a pure function of its inputs.
func PathKey(source, target string, maxDepth int, at time.Time) Key {
	return Key{
		Kind:     KindPath,
		Source:   source,
		Target:   target,
		MaxDepth: maxDepth,
		Bucket:   hourBucket(at),
	}
}

// NeighborhoodKey derives the cache key for a neighborhood query.
func NeighborhoodKey(source string, maxDepth int, at time.Time) Key {
	return Key{
		Kind:     KindNeighborhood,
		Source:   source,
		MaxDepth: maxDepth,
		Bucket:   hourBucket(at),
	}
}

func hourBucket(at time.Time) int64 {
	return at.UTC().Unix() / 3600
}

// String encodes the key for the underlying store. Business ids cannot
// contain '|' (enforced at the store boundary), so the encoding is
// unambiguous.
func (k Key) String() string {
	return fmt.Sprintf("%s|%d|%d|%s|%s", k.Kind, k.MaxDepth, k.Bucket, k.Source, k.Target)
}

// parseKey decodes a stored key string. Returns false for strings this
// package did not produce.
func parseKey(s string) (Key, bool) {
	parts := strings.SplitN(s, "|", 5)
	if len(parts) != 5 {
		return Key{}, false
	}

	kind := Kind(parts[0])
	if kind != KindPath && kind != KindNeighborhood {
		return Key{}, false
	}
	depth, err := strconv.Atoi(parts[1])
	if err != nil {
		return Key{}, false
	}
	bucket, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Key{}, false
	}

	return Key{
		Kind:     kind,
		Source:   parts[3],
		Target:   parts[4],
		MaxDepth: depth,
		Bucket:   bucket,
	}, true
}

// Touches reports whether the key's endpoints include the business id.
func (k Key) Touches(businessID string) bool {
	return k.Source == businessID || k.Target == businessID
}
