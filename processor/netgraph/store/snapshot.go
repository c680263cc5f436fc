package store

import (
	"context"
	"sync"

	"github.com/c360/biznet/graph"
)

// Snapshot is a per-traversal read view over the store. Each node state
// (including its absence) is memoized at first read, so a single
// traversal never observes two versions of the same node even while
// concurrent writers advance the canonical state. Snapshots are cheap;
// create one per query and discard it.
type Snapshot struct {
	m *Manager

	mu    sync.Mutex
	nodes map[string]snapshotEntry
}

type snapshotEntry struct {
	state *graph.NodeState
	err   error
}

// Snapshot returns a fresh read view pinned to first-read node versions.
func (m *Manager) Snapshot() *Snapshot {
	return &Snapshot{
		m:     m,
		nodes: make(map[string]snapshotEntry),
	}
}

// GetNode returns the memoized node state for id, reading through to the
// store on first access. Not-found results are memoized too: a node that
// was absent at first read stays absent for the life of the snapshot.
func (s *Snapshot) GetNode(ctx context.Context, id string) (*graph.NodeState, error) {
	s.mu.Lock()
	if entry, ok := s.nodes[id]; ok {
		s.mu.Unlock()
		return entry.state, entry.err
	}
	s.mu.Unlock()

	// Read outside the lock; a racing duplicate read is harmless and the
	// first memoized result wins.
	state, err := s.m.GetNode(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.nodes[id]; ok {
		return entry.state, entry.err
	}
	if ctx.Err() != nil && err != nil {
		// Deadline failures are not pinned; a later caller with a live
		// context should not inherit them.
		return nil, err
	}
	s.nodes[id] = snapshotEntry{state: state, err: err}
	return state, err
}

// GetNeighbors returns the adjacency of id under this snapshot.
func (s *Snapshot) GetNeighbors(ctx context.Context, id string) ([]graph.Neighbor, error) {
	state, err := s.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}
	return state.Neighbors(), nil
}
