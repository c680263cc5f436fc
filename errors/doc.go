// Package errors provides standardized error handling patterns for biznet components.
//
// # Overview
//
// The errors package implements a four-class error classification system for the
// relationship graph engine: Transient (temporary, retryable), Invalid (bad input,
// non-retryable), Conflict (write-invariant violation, surfaced to the writer),
// and Fatal (unrecoverable, stop processing).
//
// Classification lets components make retry and degradation decisions without
// hardcoded error string matching, and gives the query service a stable mapping
// from internal failures to response envelope statuses.
//
// # Error Classification
//
//   - Transient: network timeouts, connection issues, KV revision races,
//     temporary unavailability (retry recommended)
//   - Invalid: malformed input, depth out of policy range, validation failures
//     (do not retry)
//   - Conflict: an edge upsert violates the one-active-record-per-pair-per-type
//     invariant without an explicit overwrite (surface to the writer, never merge)
//   - Fatal: configuration errors, corruption, unrecoverable states
//
// The system integrates with Go's standard error handling, supporting
// errors.Is(), errors.As(), and wrapping chains.
//
// # Domain Taxonomy
//
// The graph engine's caller-visible conditions map onto sentinels:
//
//	errors.ErrEntityNotFound   // referenced business id absent (4xx-equivalent)
//	errors.ErrInvalidDepth     // max depth outside [1, ceiling]
//	errors.ErrEdgeConflict     // duplicate (pair, relationship_type) without overwrite
//	errors.ErrQueryTimeout     // deadline exceeded mid-traversal
//
// A path query that finds no connection within the depth bound is NOT an error:
// it is reported as an empty-result payload by the query service. Timeouts are
// safe for the caller to retry with backoff but are never retried internally.
//
// # Quick Start
//
// Return standard error variables for known conditions:
//
//	if state == nil {
//	    return errors.ErrEntityNotFound
//	}
//
// Wrap errors with component context:
//
//	if err := store.GetNode(ctx, id); err != nil {
//	    return errors.WrapTransient(err, "GraphStore", "GetNode", "kv read")
//	}
//
// Check classification for retry logic:
//
//	if err := operation(); err != nil {
//	    if errors.IsTransient(err) && !errors.IsTimeout(err) {
//	        // bounded retry with backoff
//	    } else {
//	        return err // propagate unmodified
//	    }
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// This format enables consistent log parsing and operational monitoring across
// the platform. Four classification-aware wrappers apply the pattern:
//
//	errors.WrapTransient(err, "Component", "Method", "action")
//	errors.WrapInvalid(err, "Component", "Method", "action")
//	errors.WrapConflict(err, "Component", "Method", "action")
//	errors.WrapFatal(err, "Component", "Method", "action")
//
// The generic Wrap() adds context without asserting a class.
//
// # Retry Integration
//
// RetryConfig bridges classification into the retry framework:
//
//	cfg := errors.DefaultRetryConfig()
//	err := retry.Do(ctx, cfg.ToRetryConfig(), func(ctx context.Context) error {
//	    return store.read(ctx, key)
//	})
//
// Only transient classes pass ShouldRetry; invalid input, conflicts, not-found
// conditions and timeouts short-circuit immediately.
package errors
