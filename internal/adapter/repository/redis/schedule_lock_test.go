package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/contractledger/internal/domain"
)

func TestScheduleLockAcquireAndRelease(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	lock := NewScheduleLock(client, time.Minute)
	ctx := context.Background()

	token, err := lock.Acquire(ctx, "sched-1")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a lock token")
	}

	if _, err := lock.Acquire(ctx, "sched-1"); !errors.Is(err, domain.ErrScheduleLocked) {
		t.Fatalf("expected ErrScheduleLocked, got %v", err)
	}

	if err := lock.Release(ctx, "sched-1", token); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	if _, err := lock.Acquire(ctx, "sched-1"); err != nil {
		t.Fatalf("expected acquire after release to succeed, got %v", err)
	}
}

func TestScheduleLockReleaseIgnoresForeignToken(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	lock := NewScheduleLock(client, time.Minute)
	ctx := context.Background()

	token, err := lock.Acquire(ctx, "sched-1")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	if err := lock.Release(ctx, "sched-1", "stale-token"); err != nil {
		t.Fatalf("release with foreign token failed: %v", err)
	}

	if _, err := lock.Acquire(ctx, "sched-1"); !errors.Is(err, domain.ErrScheduleLocked) {
		t.Fatalf("expected lock to survive a foreign release, got %v", err)
	}

	if err := lock.Release(ctx, "sched-1", token); err != nil {
		t.Fatalf("release failed: %v", err)
	}
}

func TestScheduleLockExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	lock := NewScheduleLock(client, time.Second)
	ctx := context.Background()

	if _, err := lock.Acquire(ctx, "sched-1"); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	if _, err := lock.Acquire(ctx, "sched-1"); err != nil {
		t.Fatalf("expected acquire after expiry to succeed, got %v", err)
	}
}

func TestScheduleLockIndependentSchedules(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	lock := NewScheduleLock(client, time.Minute)
	ctx := context.Background()

	if _, err := lock.Acquire(ctx, "sched-1"); err != nil {
		t.Fatalf("acquire sched-1 failed: %v", err)
	}

	if _, err := lock.Acquire(ctx, "sched-2"); err != nil {
		t.Fatalf("locking one schedule must not lock another: %v", err)
	}
}
