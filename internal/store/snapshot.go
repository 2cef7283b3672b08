package store

import (
	"sync"

	"github.com/pandastrade/papertrade/internal/domain"
)

// SnapshotStore holds the latest quote snapshot per symbol. The feed
// replaces a whole tick's worth of snapshots under one lock, so
// readers never observe a half-applied tick.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
}

// NewSnapshotStore creates an empty SnapshotStore.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[string]domain.Snapshot),
	}
}

// SetAll stores all snapshots from one feed tick atomically.
func (s *SnapshotStore) SetAll(snapshots []domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range snapshots {
		s.snapshots[snap.Symbol] = snap
	}
}

// Get retrieves the latest snapshot for a symbol. It returns
// domain.ErrSnapshotNotFound when no snapshot has been recorded yet.
func (s *SnapshotStore) Get(symbol string) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[symbol]
	if !ok {
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}
	return snap, nil
}

// All returns a copy of the latest snapshot for every symbol.
func (s *SnapshotStore) All() map[string]domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.Snapshot, len(s.snapshots))
	for symbol, snap := range s.snapshots {
		out[symbol] = snap
	}
	return out
}
