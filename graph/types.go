// Package graph provides the domain model for the business network:
// nodes, weighted relationship edges, and persisted node state.
package graph

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// RelationshipType classifies the business relationship carried by an edge.
type RelationshipType string

const (
	// RelationshipVendor indicates the pair transacts in a vendor capacity.
	RelationshipVendor RelationshipType = "vendor"

	// RelationshipClient indicates the pair transacts in a client capacity.
	RelationshipClient RelationshipType = "client"

	// RelationshipPartner indicates a partnership between the pair.
	RelationshipPartner RelationshipType = "partner"
)

// String returns the string representation of the RelationshipType.
func (rt RelationshipType) String() string {
	return string(rt)
}

// MarshalJSON implements json.Marshaler to ensure RelationshipType serializes as a string.
func (rt RelationshipType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(rt))
}

// UnmarshalJSON implements json.Unmarshaler to deserialize RelationshipType from string.
func (rt *RelationshipType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*rt = RelationshipType(s)
	return nil
}

// IsValid checks if the RelationshipType is one of the defined constants.
func (rt RelationshipType) IsValid() bool {
	switch rt {
	case RelationshipVendor, RelationshipClient, RelationshipPartner:
		return true
	default:
		return false
	}
}

// SizeClass buckets a business by headcount/revenue band.
type SizeClass string

const (
	// SizeSmall is the smallest business size band.
	SizeSmall SizeClass = "small"
	// SizeMedium is the mid business size band.
	SizeMedium SizeClass = "medium"
	// SizeLarge is the large business size band.
	SizeLarge SizeClass = "large"
	// SizeEnterprise is the largest business size band.
	SizeEnterprise SizeClass = "enterprise"
)

// IsValid checks if the SizeClass is one of the defined constants.
// The empty value is accepted: size class is optional on ingest.
func (sc SizeClass) IsValid() bool {
	switch sc {
	case "", SizeSmall, SizeMedium, SizeLarge, SizeEnterprise:
		return true
	default:
		return false
	}
}

// BusinessNode is a company participating in the network.
// The id is opaque, immutable, and unique within the store.
type BusinessNode struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Location  string    `json:"location,omitempty"`
	SizeClass SizeClass `json:"size_class,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WeightSaturationVolume is the transaction volume at which a derived edge
// weight reaches 0.5. Weights approach 1.0 asymptotically above it.
const WeightSaturationVolume = 50_000.0

// DeriveWeight maps a non-negative transaction volume onto [0,1).
// The mapping is strictly monotonic: more volume always means more weight.
// Negative input clamps to zero.
func DeriveWeight(transactionVolume float64) float64 {
	if transactionVolume <= 0 {
		return 0
	}
	return transactionVolume / (transactionVolume + WeightSaturationVolume)
}

// RelationshipEdge is an undirected weighted association between two
// businesses. The endpoint pair is stored in canonical (lexicographic)
// order; the same record appears in both endpoints' node states so
// traversal can walk it from either side.
type RelationshipEdge struct {
	BusinessA         string           `json:"business_a"`
	BusinessB         string           `json:"business_b"`
	RelationshipType  RelationshipType `json:"relationship_type"`
	TransactionVolume float64          `json:"transaction_volume"`
	Frequency         string           `json:"frequency,omitempty"`
	Weight            float64          `json:"weight"`
	CreatedAt         time.Time        `json:"created_at"`
	LastTransaction   time.Time        `json:"last_transaction"`
}

// CanonicalPair returns the unordered pair in canonical order.
func CanonicalPair(a, b string) (string, string) {
	if strings.Compare(a, b) <= 0 {
		return a, b
	}
	return b, a
}

// PairKey returns the canonical "a|b" key identifying the unordered pair.
func PairKey(a, b string) string {
	ca, cb := CanonicalPair(a, b)
	return ca + "|" + cb
}

// Canonicalize rewrites the edge endpoints into canonical order and
// refreshes the derived weight from the transaction volume.
func (e *RelationshipEdge) Canonicalize() {
	e.BusinessA, e.BusinessB = CanonicalPair(e.BusinessA, e.BusinessB)
	e.Weight = DeriveWeight(e.TransactionVolume)
}

// PairKey returns the canonical pair key for this edge.
func (e *RelationshipEdge) PairKey() string {
	return PairKey(e.BusinessA, e.BusinessB)
}

// Other returns the endpoint opposite to selfID, and whether selfID is
// actually one of the endpoints.
func (e *RelationshipEdge) Other(selfID string) (string, bool) {
	switch selfID {
	case e.BusinessA:
		return e.BusinessB, true
	case e.BusinessB:
		return e.BusinessA, true
	default:
		return "", false
	}
}

// Neighbor pairs an adjacent business id with the edge that reaches it.
type Neighbor struct {
	ID   string           `json:"id"`
	Edge RelationshipEdge `json:"edge"`
}

// NodeState is the persisted KV record for one business: the node itself
// plus every incident relationship edge. Version supports optimistic
// concurrency on writes.
type NodeState struct {
	Node      BusinessNode       `json:"node"`
	Edges     []RelationshipEdge `json:"edges"`
	Version   uint64             `json:"version"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// FindEdge returns the active edge for (pair, type), if present.
func (ns *NodeState) FindEdge(pairKey string, relType RelationshipType) (*RelationshipEdge, bool) {
	for i := range ns.Edges {
		e := &ns.Edges[i]
		if e.PairKey() == pairKey && e.RelationshipType == relType {
			return e, true
		}
	}
	return nil, false
}

// AttachEdge adds or replaces the edge for its (pair, type) slot.
// At most one active record per unordered pair per relationship type
// exists; an existing record is overwritten in place. Returns true when
// an existing record was replaced.
func (ns *NodeState) AttachEdge(edge RelationshipEdge) bool {
	key := edge.PairKey()
	for i, e := range ns.Edges {
		if e.PairKey() == key && e.RelationshipType == edge.RelationshipType {
			ns.Edges[i] = edge
			return true
		}
	}
	ns.Edges = append(ns.Edges, edge)
	return false
}

// DetachEdge removes edges matching the pair, optionally restricted to a
// relationship type (empty type matches all types for the pair).
// Returns the number of edges removed.
func (ns *NodeState) DetachEdge(pairKey string, relType RelationshipType) int {
	removed := 0
	filtered := ns.Edges[:0]
	for _, e := range ns.Edges {
		if e.PairKey() == pairKey && (relType == "" || e.RelationshipType == relType) {
			removed++
			continue
		}
		filtered = append(filtered, e)
	}
	ns.Edges = filtered
	return removed
}

// Neighbors returns the adjacent business ids with their edges, sorted by
// neighbor id then relationship type for deterministic traversal order.
func (ns *NodeState) Neighbors() []Neighbor {
	neighbors := make([]Neighbor, 0, len(ns.Edges))
	for _, e := range ns.Edges {
		other, ok := e.Other(ns.Node.ID)
		if !ok {
			continue
		}
		neighbors = append(neighbors, Neighbor{ID: other, Edge: e})
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].ID != neighbors[j].ID {
			return neighbors[i].ID < neighbors[j].ID
		}
		return neighbors[i].Edge.RelationshipType < neighbors[j].Edge.RelationshipType
	})
	return neighbors
}
