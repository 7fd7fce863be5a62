package runlock_test

import (
	"errors"
	"testing"

	"curator/internal/runlock"
	"curator/internal/testsupport"
)

func TestAcquireIsExclusive(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	lock, err := runlock.Acquire(cfg)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	t.Cleanup(func() { lock.Release() })

	if _, err := runlock.Acquire(cfg); !errors.Is(err, runlock.ErrHeld) {
		t.Fatalf("expected ErrHeld for the second acquire, got %v", err)
	}
}

func TestReleaseAllowsReacquire(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	lock, err := runlock.Acquire(cfg)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	again, err := runlock.Acquire(cfg)
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	if err := again.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestReleaseNilLock(t *testing.T) {
	var lock *runlock.Lock
	if err := lock.Release(); err != nil {
		t.Fatalf("nil release must be a no-op, got %v", err)
	}
}
