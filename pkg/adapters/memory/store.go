// Package memory provides an in-memory SnapshotStore, suitable for tests
// and single-process deployments.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Store keeps snapshots in a map guarded by a RWMutex. Snapshots are
// deep-copied on the way in and out so callers cannot alias internal state.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]*domain.Snapshot
}

var _ ports.SnapshotStore = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		snapshots: make(map[string]*domain.Snapshot),
	}
}

func (s *Store) Save(_ context.Context, snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.SessionID] = copySnapshot(snap)
	return nil
}

func (s *Store) Load(_ context.Context, sessionID string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[sessionID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return copySnapshot(snap), nil
}

func (s *Store) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, sessionID)
	return nil
}

func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.snapshots))
	for id := range s.snapshots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func copySnapshot(snap *domain.Snapshot) *domain.Snapshot {
	out := &domain.Snapshot{
		SessionID: snap.SessionID,
		BuildID:   snap.BuildID,
		Query:     snap.Query.Clone(),
		CreatedAt: snap.CreatedAt,
	}
	if snap.History != nil {
		out.History = make([]domain.HistoryEntry, len(snap.History))
		copy(out.History, snap.History)
	}
	return out
}
