// Package retry provides bounded exponential backoff retry for transient failures.
//
// # Overview
//
// This package offers a minimal retry mechanism with exponential backoff, used
// for transient graph store reads, KV bucket initialization, and component
// startup. Retry here is always bounded: the engine never retries an operation
// past its deadline or on errors the caller marked non-retryable.
//
// # Core Functions
//
//   - Do: Execute function with retry and exponential backoff
//   - DoWithResult: Execute function with retry, returns both result and error
//
// # Configuration Presets
//
//   - DefaultConfig(): 3 attempts, 100ms-5s delay (normal operations)
//   - Quick(): 10 attempts, 50ms-1s delay (component startup)
//   - Persistent(): 30 attempts, 200ms-10s delay (critical resources)
//
// # Usage Examples
//
// Basic retry with defaults:
//
//	err := retry.Do(ctx, retry.DefaultConfig(), func(ctx context.Context) error {
//	    return client.Connect(ctx)
//	})
//
// Bucket handle with result:
//
//	bucket, err := retry.DoWithResult(ctx, retry.Quick(), func(ctx context.Context) (jetstream.KeyValue, error) {
//	    return js.KeyValue(ctx, bucketName)
//	})
//
// Restricting what gets retried:
//
//	cfg := retry.DefaultConfig()
//	cfg.RetryIf = errors.IsTransient
//	err := retry.Do(ctx, cfg, readState)
//
// # Design Philosophy
//
// This package is intentionally minimal:
//
//   - No circuit breakers (the NATS client carries its own)
//   - No metrics collection (instrument at the call site)
//   - Error classification stays with the caller via RetryIf
//   - Just exponential backoff with jitter
//
// # Context Cancellation
//
// All retry operations respect context cancellation and will immediately stop
// retrying when the context is cancelled, either during operation execution or
// during backoff delay.
//
// # Thread Safety
//
// All functions are safe for concurrent use. The jitter mechanism uses a
// thread-safe random source to avoid contention.
package retry
