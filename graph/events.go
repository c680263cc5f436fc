// Package graph provides event types for relationship change notification.
package graph

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c360/biznet/errors"
)

// ChangeKind defines the kinds of graph changes that emit invalidation events.
type ChangeKind string

const (
	// ChangeRelationshipCreated signals a relationship was created.
	ChangeRelationshipCreated ChangeKind = "relationship_created"

	// ChangeRelationshipUpdated signals an existing relationship changed
	// (volume, frequency, or derived weight).
	ChangeRelationshipUpdated ChangeKind = "relationship_updated"

	// ChangeRelationshipDeleted signals a relationship was removed.
	ChangeRelationshipDeleted ChangeKind = "relationship_deleted"

	// ChangeBusinessUpdated signals a business node's properties changed.
	ChangeBusinessUpdated ChangeKind = "business_updated"
)

// IsValid checks if the ChangeKind is one of the defined constants.
func (ck ChangeKind) IsValid() bool {
	switch ck {
	case ChangeRelationshipCreated, ChangeRelationshipUpdated,
		ChangeRelationshipDeleted, ChangeBusinessUpdated:
		return true
	default:
		return false
	}
}

// IsRelationship reports whether the change touches an edge (both
// endpoints populated) rather than a single node.
func (ck ChangeKind) IsRelationship() bool {
	switch ck {
	case ChangeRelationshipCreated, ChangeRelationshipUpdated, ChangeRelationshipDeleted:
		return true
	default:
		return false
	}
}

// InvalidationEvent notifies the consistency coordinator that a node or
// edge changed. Events are consumed once, drive cache invalidation, and
// are then discarded; they carry no graph state of their own.
type InvalidationEvent struct {
	EventID          string           `json:"event_id"`
	Kind             ChangeKind       `json:"kind"`
	BusinessA        string           `json:"business_a"`
	BusinessB        string           `json:"business_b,omitempty"`
	RelationshipType RelationshipType `json:"relationship_type,omitempty"`
	Timestamp        time.Time        `json:"timestamp"`
	TraceID          string           `json:"trace_id,omitempty"`
}

// Validate checks the event carries the fields its kind requires.
func (ev *InvalidationEvent) Validate() error {
	if !ev.Kind.IsValid() {
		return errors.WrapInvalid(errors.ErrInvalidData, "InvalidationEvent", "Validate",
			fmt.Sprintf("unknown change kind %q", ev.Kind))
	}

	if ev.EventID == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "InvalidationEvent", "Validate",
			"event id is required")
	}

	if ev.BusinessA == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "InvalidationEvent", "Validate",
			"business id is required")
	}

	if ev.Kind.IsRelationship() {
		if ev.BusinessB == "" {
			return errors.WrapInvalid(errors.ErrInvalidData, "InvalidationEvent", "Validate",
				"second business id is required for relationship events")
		}
		if ev.BusinessA == ev.BusinessB {
			return errors.WrapInvalid(errors.ErrInvalidData, "InvalidationEvent", "Validate",
				"relationship endpoints must differ")
		}
	}

	if ev.Timestamp.IsZero() {
		return errors.WrapInvalid(errors.ErrInvalidData, "InvalidationEvent", "Validate",
			"timestamp is required")
	}

	return nil
}

// Subject returns the NATS subject for this event kind. The hierarchy
// allows subscribing to one kind or all network events at once.
func (ev *InvalidationEvent) Subject() string {
	return "network.event." + strings.ReplaceAll(string(ev.Kind), "_", ".")
}

// Touches reports whether the event concerns the given business id.
func (ev *InvalidationEvent) Touches(businessID string) bool {
	return ev.BusinessA == businessID || ev.BusinessB == businessID
}

// NewRelationshipEvent builds an invalidation event for an edge change.
// Endpoints are stored in canonical order.
func NewRelationshipEvent(kind ChangeKind, a, b string, relType RelationshipType, traceID string) *InvalidationEvent {
	ca, cb := CanonicalPair(a, b)
	return &InvalidationEvent{
		EventID:          uuid.NewString(),
		Kind:             kind,
		BusinessA:        ca,
		BusinessB:        cb,
		RelationshipType: relType,
		Timestamp:        time.Now().UTC(),
		TraceID:          traceID,
	}
}

// NewBusinessEvent builds an invalidation event for a node change.
func NewBusinessEvent(businessID, traceID string) *InvalidationEvent {
	return &InvalidationEvent{
		EventID:   uuid.NewString(),
		Kind:      ChangeBusinessUpdated,
		BusinessA: businessID,
		Timestamp: time.Now().UTC(),
		TraceID:   traceID,
	}
}
