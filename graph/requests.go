// Package graph provides request types for the NATS query and mutation API.
package graph

import (
	"fmt"
	"time"

	"github.com/c360/biznet/errors"
)

// Query Request Types

// PathQueryRequest asks for the best bounded-depth path between two businesses.
// MaxDepth is a pointer so an omitted field can fall back to the service
// default while an explicit zero is rejected as out of policy range.
type PathQueryRequest struct {
	SourceID  string `json:"source_id"`
	TargetID  string `json:"target_id"`
	MaxDepth  *int   `json:"max_depth,omitempty"`
	TimeoutMS int64  `json:"timeout_ms,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Validate checks structural validity. Depth policy (range against the
// configured ceiling) is enforced by the path finder.
func (r *PathQueryRequest) Validate() error {
	if r.SourceID == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "PathQueryRequest", "Validate",
			"source_id is required")
	}
	if r.TargetID == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "PathQueryRequest", "Validate",
			"target_id is required")
	}
	if r.TimeoutMS < 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "PathQueryRequest", "Validate",
			fmt.Sprintf("timeout_ms must be non-negative, got %d", r.TimeoutMS))
	}
	return nil
}

// EffectiveDepth resolves the requested depth: an omitted max_depth uses
// the service default, an explicit value passes through for policy checks.
func (r *PathQueryRequest) EffectiveDepth(defaultDepth int) int {
	if r.MaxDepth == nil {
		return defaultDepth
	}
	return *r.MaxDepth
}

// Timeout converts the millisecond budget to a duration (0 = use default).
func (r *PathQueryRequest) Timeout() time.Duration {
	return time.Duration(r.TimeoutMS) * time.Millisecond
}

// NeighborhoodQueryRequest asks for every business reachable from a source
// within a bounded number of hops.
type NeighborhoodQueryRequest struct {
	SourceID  string `json:"source_id"`
	MaxDepth  *int   `json:"max_depth,omitempty"`
	TimeoutMS int64  `json:"timeout_ms,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Validate checks structural validity.
func (r *NeighborhoodQueryRequest) Validate() error {
	if r.SourceID == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "NeighborhoodQueryRequest", "Validate",
			"source_id is required")
	}
	if r.TimeoutMS < 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "NeighborhoodQueryRequest", "Validate",
			fmt.Sprintf("timeout_ms must be non-negative, got %d", r.TimeoutMS))
	}
	return nil
}

// EffectiveDepth resolves the requested depth against the service default.
func (r *NeighborhoodQueryRequest) EffectiveDepth(defaultDepth int) int {
	if r.MaxDepth == nil {
		return defaultDepth
	}
	return *r.MaxDepth
}

// Timeout converts the millisecond budget to a duration (0 = use default).
func (r *NeighborhoodQueryRequest) Timeout() time.Duration {
	return time.Duration(r.TimeoutMS) * time.Millisecond
}

// BusinessQueryRequest asks for one business and its direct relationships.
type BusinessQueryRequest struct {
	BusinessID string `json:"business_id"`
	TraceID    string `json:"trace_id,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

// Validate checks structural validity.
func (r *BusinessQueryRequest) Validate() error {
	if r.BusinessID == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "BusinessQueryRequest", "Validate",
			"business_id is required")
	}
	return nil
}

// Mutation Request Types

// ApplyRelationshipRequest creates or updates the relationship between two
// businesses. With Overwrite false, an existing active record for the same
// (pair, relationship_type) is a conflict.
type ApplyRelationshipRequest struct {
	BusinessA         string           `json:"business_a"`
	BusinessB         string           `json:"business_b"`
	RelationshipType  RelationshipType `json:"relationship_type"`
	TransactionVolume float64          `json:"transaction_volume"`
	Frequency         string           `json:"frequency,omitempty"`
	Overwrite         bool             `json:"overwrite,omitempty"`
	TraceID           string           `json:"trace_id,omitempty"`
	RequestID         string           `json:"request_id,omitempty"`
}

// Validate checks the relationship mutation is well formed.
func (r *ApplyRelationshipRequest) Validate() error {
	if r.BusinessA == "" || r.BusinessB == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "ApplyRelationshipRequest", "Validate",
			"both business ids are required")
	}
	if r.BusinessA == r.BusinessB {
		return errors.WrapInvalid(errors.ErrInvalidData, "ApplyRelationshipRequest", "Validate",
			"relationship endpoints must differ")
	}
	if !r.RelationshipType.IsValid() {
		return errors.WrapInvalid(errors.ErrInvalidData, "ApplyRelationshipRequest", "Validate",
			fmt.Sprintf("unknown relationship_type %q", r.RelationshipType))
	}
	if r.TransactionVolume < 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "ApplyRelationshipRequest", "Validate",
			fmt.Sprintf("transaction_volume must be non-negative, got %f", r.TransactionVolume))
	}
	return nil
}

// Edge materializes the relationship record described by the request,
// endpoints canonicalized and weight derived from the volume.
func (r *ApplyRelationshipRequest) Edge(now time.Time) RelationshipEdge {
	edge := RelationshipEdge{
		BusinessA:         r.BusinessA,
		BusinessB:         r.BusinessB,
		RelationshipType:  r.RelationshipType,
		TransactionVolume: r.TransactionVolume,
		Frequency:         r.Frequency,
		CreatedAt:         now,
		LastTransaction:   now,
	}
	edge.Canonicalize()
	return edge
}

// RemoveRelationshipRequest deletes the relationship between two businesses.
// An empty relationship_type removes all types for the pair.
type RemoveRelationshipRequest struct {
	BusinessA        string           `json:"business_a"`
	BusinessB        string           `json:"business_b"`
	RelationshipType RelationshipType `json:"relationship_type,omitempty"`
	TraceID          string           `json:"trace_id,omitempty"`
	RequestID        string           `json:"request_id,omitempty"`
}

// Validate checks the removal request is well formed.
func (r *RemoveRelationshipRequest) Validate() error {
	if r.BusinessA == "" || r.BusinessB == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "RemoveRelationshipRequest", "Validate",
			"both business ids are required")
	}
	if r.RelationshipType != "" && !r.RelationshipType.IsValid() {
		return errors.WrapInvalid(errors.ErrInvalidData, "RemoveRelationshipRequest", "Validate",
			fmt.Sprintf("unknown relationship_type %q", r.RelationshipType))
	}
	return nil
}

// UpsertBusinessRequest creates or updates a business node. The id is
// immutable: updates replace every other field but never the id.
type UpsertBusinessRequest struct {
	Business  BusinessNode `json:"business"`
	TraceID   string       `json:"trace_id,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
}

// Validate checks the node mutation is well formed.
func (r *UpsertBusinessRequest) Validate() error {
	if r.Business.ID == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "UpsertBusinessRequest", "Validate",
			"business id is required")
	}
	if !r.Business.SizeClass.IsValid() {
		return errors.WrapInvalid(errors.ErrInvalidData, "UpsertBusinessRequest", "Validate",
			fmt.Sprintf("unknown size_class %q", r.Business.SizeClass))
	}
	return nil
}
