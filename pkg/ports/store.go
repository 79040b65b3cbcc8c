package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// SnapshotStore defines the interface for persisting build snapshots.
// A snapshot is the final document plus the capture history of one build,
// keyed by session ID. The latest snapshot per session wins.
type SnapshotStore interface {
	// Save persists the snapshot for its session ID.
	Save(ctx context.Context, snap *domain.Snapshot) error

	// Load retrieves the latest snapshot for a session ID.
	// Returns domain.ErrSnapshotNotFound if the session has none.
	Load(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the session IDs that currently have a snapshot.
	List(ctx context.Context) ([]string, error)
}
