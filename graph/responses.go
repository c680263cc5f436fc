// Package graph provides response types for the NATS query and mutation API.
package graph

import "time"

// Envelope status values.
const (
	// StatusOK marks a successful query, including no-path-found results.
	StatusOK = "ok"
	// StatusError marks a failed query (invalid input, unknown id, internal).
	StatusError = "error"
	// StatusTimeout marks a query abandoned at its deadline.
	StatusTimeout = "timeout"
	// StatusBusy marks a query shed by the rate limiter.
	StatusBusy = "busy"
)

// QueryMetadata is the metadata block attached to every query response.
type QueryMetadata struct {
	// TotalRelationships counts the relationship records carried in the
	// data payload.
	TotalRelationships int `json:"total_relationships"`
	// QueryTimeMS is the server-side computation time in milliseconds.
	QueryTimeMS int64 `json:"query_time_ms"`
}

// Error codes carried alongside the error message so the API layer can
// map failures without parsing message text.
const (
	CodeBadRequest     = "bad_request"
	CodeEntityNotFound = "entity_not_found"
	CodeInvalidDepth   = "invalid_depth"
	CodeConflict       = "conflict"
	CodeTimeout        = "timeout"
	CodeBusy           = "busy"
	CodeInternal       = "internal"
)

// Response is the envelope returned by every query subject.
type Response struct {
	Status    string         `json:"status"`
	Data      any            `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
	ErrorCode string         `json:"error_code,omitempty"`
	Metadata  *QueryMetadata `json:"metadata,omitempty"`
	TraceID   string         `json:"trace_id,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// OKResponse wraps a successful payload with its metadata block.
func OKResponse(data any, meta QueryMetadata) Response {
	return Response{Status: StatusOK, Data: data, Metadata: &meta}
}

// ErrorResponse builds a failed envelope with a machine-readable code.
func ErrorResponse(code, message string) Response {
	return Response{Status: StatusError, Error: message, ErrorCode: code}
}

// TimeoutResponse marks a query abandoned at its deadline. The caller may
// retry with backoff; the engine never retries timeouts on its own.
func TimeoutResponse(message string) Response {
	return Response{Status: StatusTimeout, Error: message, ErrorCode: CodeTimeout}
}

// BusyResponse marks a query shed before computation started.
func BusyResponse(message string) Response {
	return Response{Status: StatusBusy, Error: message, ErrorCode: CodeBusy}
}

// RelationshipView is the caller-facing projection of a relationship edge.
type RelationshipView struct {
	BusinessA         string           `json:"business_a"`
	BusinessB         string           `json:"business_b"`
	RelationshipType  RelationshipType `json:"relationship_type"`
	Frequency         string           `json:"frequency,omitempty"`
	Weight            float64          `json:"weight"`
	TransactionVolume float64          `json:"transaction_volume"`
	CreatedAt         time.Time        `json:"created_at"`
	LastTransaction   time.Time        `json:"last_transaction"`
}

// NewRelationshipView projects an edge into its response form.
func NewRelationshipView(e RelationshipEdge) RelationshipView {
	return RelationshipView{
		BusinessA:         e.BusinessA,
		BusinessB:         e.BusinessB,
		RelationshipType:  e.RelationshipType,
		Frequency:         e.Frequency,
		Weight:            e.Weight,
		TransactionVolume: e.TransactionVolume,
		CreatedAt:         e.CreatedAt,
		LastTransaction:   e.LastTransaction,
	}
}

// BusinessPayload is the data payload for business queries: the node plus
// its direct relationships.
type BusinessPayload struct {
	Business      *BusinessNode      `json:"business"`
	Relationships []RelationshipView `json:"relationships"`
}

// PathPayload is the data payload for path queries. PathFound false with
// an "ok" status signals disconnection within the depth bound; it is an
// empty result, not an error.
type PathPayload struct {
	PathFound       bool               `json:"path_found"`
	Nodes           []string           `json:"nodes,omitempty"`
	Relationships   []RelationshipView `json:"relationships,omitempty"`
	Hops            int                `json:"hops"`
	AggregateWeight float64            `json:"aggregate_weight"`
	MaxDepth        int                `json:"max_depth"`
}

// NeighborhoodMemberView is one reachable business in a neighborhood result.
type NeighborhoodMemberView struct {
	ID       string   `json:"id"`
	Distance int      `json:"distance"`
	Weight   float64  `json:"weight"`
	Path     []string `json:"path,omitempty"`
}

// NeighborhoodPayload is the data payload for neighborhood queries.
type NeighborhoodPayload struct {
	SourceID      string                   `json:"source_id"`
	MaxDepth      int                      `json:"max_depth"`
	Members       []NeighborhoodMemberView `json:"members"`
	Relationships []RelationshipView       `json:"relationships,omitempty"`
}

// MutationAck is the reply for all mutation subjects.
type MutationAck struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp int64  `json:"timestamp"` // Unix nano timestamp
}

// NewMutationAck creates a mutation acknowledgement.
func NewMutationAck(success bool, err error, traceID, requestID string) MutationAck {
	ack := MutationAck{
		Success:   success,
		TraceID:   traceID,
		RequestID: requestID,
		Timestamp: time.Now().UnixNano(),
	}
	if err != nil {
		ack.Error = err.Error()
	}
	return ack
}
