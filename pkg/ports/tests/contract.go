package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// SnapshotStoreContractTest is a reusable suite that verifies an adapter
// complies with ports.SnapshotStore semantics. Every store adapter runs it.
func SnapshotStoreContractTest(t *testing.T, store ports.SnapshotStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-session")
		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			t.Errorf("expected ErrSnapshotNotFound, got %v", err)
		}
	})

	t.Run("Save_Load", func(t *testing.T) {
		snap := &domain.Snapshot{
			SessionID: "contract-session",
			BuildID:   "01BUILD",
			Query:     domain.Document{"size": float64(10)},
			CreatedAt: time.Now().UTC(),
		}
		if err := store.Save(ctx, snap); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		loaded, err := store.Load(ctx, "contract-session")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if loaded.BuildID != "01BUILD" {
			t.Errorf("expected build id 01BUILD, got %s", loaded.BuildID)
		}
		if loaded.Query["size"] != float64(10) {
			t.Errorf("expected size 10, got %v", loaded.Query["size"])
		}
	})

	t.Run("Save_Overwrites", func(t *testing.T) {
		first := &domain.Snapshot{SessionID: "ow", BuildID: "one", Query: domain.Document{}}
		second := &domain.Snapshot{SessionID: "ow", BuildID: "two", Query: domain.Document{}}
		if err := store.Save(ctx, first); err != nil {
			t.Fatal(err)
		}
		if err := store.Save(ctx, second); err != nil {
			t.Fatal(err)
		}
		loaded, err := store.Load(ctx, "ow")
		if err != nil {
			t.Fatal(err)
		}
		if loaded.BuildID != "two" {
			t.Errorf("expected latest snapshot to win, got %s", loaded.BuildID)
		}
	})

	t.Run("List", func(t *testing.T) {
		sessions, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		found := false
		for _, id := range sessions {
			if id == "contract-session" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected contract-session in list, got %v", sessions)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "contract-session"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		_, err := store.Load(ctx, "contract-session")
		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			t.Errorf("expected ErrSnapshotNotFound after delete, got %v", err)
		}
	})
}
