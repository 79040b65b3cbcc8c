package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/session"
)

type fakeLocker struct {
	lockErr   error
	unlockErr error

	lockedKeys   []string
	lastTTL      time.Duration
	unlockCalled bool
}

func (f *fakeLocker) Lock(_ context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if f.lockErr != nil {
		return nil, f.lockErr
	}
	f.lockedKeys = append(f.lockedKeys, key)
	f.lastTTL = ttl
	return func(context.Context) error {
		f.unlockCalled = true
		return f.unlockErr
	}, nil
}

func TestWithLock_UsesDistributedLocker(t *testing.T) {
	locker := &fakeLocker{}
	mgr := session.NewManager(memory.NewStore(),
		session.WithLocker(locker),
		session.WithLockTTL(10*time.Second),
	)

	err := mgr.WithLock(context.Background(), "dist", func(ctx context.Context) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	if len(locker.lockedKeys) != 1 || locker.lockedKeys[0] != "dist" {
		t.Errorf("expected lock on %q, got %v", "dist", locker.lockedKeys)
	}
	if locker.lastTTL != 10*time.Second {
		t.Errorf("expected configured TTL, got %v", locker.lastTTL)
	}
	if !locker.unlockCalled {
		t.Error("expected unlock to be called")
	}
}

func TestWithLock_LockFailureAborts(t *testing.T) {
	boom := errors.New("lock held elsewhere")
	mgr := session.NewManager(memory.NewStore(), session.WithLocker(&fakeLocker{lockErr: boom}))

	called := false
	err := mgr.WithLock(context.Background(), "dist", func(ctx context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected lock error, got %v", err)
	}
	if called {
		t.Error("critical section must not run without the distributed lock")
	}
}

func TestWithLock_UnlockFailureIsSwallowed(t *testing.T) {
	// A failed unlock is logged and left to the TTL; the caller's result wins.
	locker := &fakeLocker{unlockErr: errors.New("connection reset")}
	mgr := session.NewManager(memory.NewStore(), session.WithLocker(locker))

	err := mgr.WithLock(context.Background(), "dist", func(ctx context.Context) error { return nil })
	if err != nil {
		t.Errorf("unlock failure must not surface to the caller, got %v", err)
	}
}
