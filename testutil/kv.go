// Package testutil provides in-memory test doubles shared across the
// engine's unit tests. Integration tests use natsclient.TestClient with
// real NATS containers instead.
package testutil

import (
	"context"
	"sync"

	"github.com/c360/biznet/natsclient"
)

type memEntry struct {
	value    []byte
	revision uint64
}

// MemKV is an in-memory stand-in for the natsclient KV store surface the
// graph store consumes. Updates are applied atomically under one lock,
// which gives the same per-key linearization the real bucket provides.
type MemKV struct {
	mu   sync.Mutex
	data map[string]memEntry

	failGets int
	failErr  error
}

// NewMemKV creates an empty in-memory KV.
func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string]memEntry)}
}

// FailNextGets makes the next n Get calls fail with err. Used to test
// transient-read retry behavior.
func (kv *MemKV) FailNextGets(n int, err error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.failGets = n
	kv.failErr = err
}

// Get returns the entry for key or natsclient.ErrKVKeyNotFound.
func (kv *MemKV) Get(ctx context.Context, key string) (*natsclient.KVEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kv.mu.Lock()
	defer kv.mu.Unlock()

	if kv.failGets > 0 {
		kv.failGets--
		return nil, kv.failErr
	}

	entry, ok := kv.data[key]
	if !ok {
		return nil, natsclient.ErrKVKeyNotFound
	}
	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return &natsclient.KVEntry{Key: key, Value: value, Revision: entry.revision}, nil
}

// UpdateWithRetry applies updateFn to the current value under the lock.
// Errors from updateFn propagate unmodified, matching the real store's
// fail-fast behavior for caller logic errors.
func (kv *MemKV) UpdateWithRetry(ctx context.Context, key string,
	updateFn func(current []byte) ([]byte, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	kv.mu.Lock()
	defer kv.mu.Unlock()

	var current []byte
	entry, ok := kv.data[key]
	if ok {
		current = make([]byte, len(entry.value))
		copy(current, entry.value)
	}

	next, err := updateFn(current)
	if err != nil {
		return err
	}

	kv.data[key] = memEntry{value: next, revision: entry.revision + 1}
	return nil
}

// Put seeds a key directly, bypassing the update path.
func (kv *MemKV) Put(key string, value []byte) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	entry := kv.data[key]
	kv.data[key] = memEntry{value: value, revision: entry.revision + 1}
}

// Revision returns the current revision for key (0 when absent).
func (kv *MemKV) Revision(key string) uint64 {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	return kv.data[key].revision
}

// Len returns the number of stored keys.
func (kv *MemKV) Len() int {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	return len(kv.data)
}
