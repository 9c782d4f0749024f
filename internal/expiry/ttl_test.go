package expiry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeSweeper struct {
	calls   atomic.Int32
	lastTTL atomic.Int64
	deleted int64
	err     error
}

func (f *fakeSweeper) CleanupExpiredSessions(_ context.Context, ttl time.Duration) (int64, error) {
	f.calls.Add(1)
	f.lastTTL.Store(int64(ttl))
	return f.deleted, f.err
}

func TestSweep(t *testing.T) {
	repo := &fakeSweeper{deleted: 4}
	if got := sweep(context.Background(), repo, time.Hour); got != 4 {
		t.Fatalf("sweep = %d, want 4", got)
	}
	if time.Duration(repo.lastTTL.Load()) != time.Hour {
		t.Errorf("ttl passed = %v, want 1h", time.Duration(repo.lastTTL.Load()))
	}

	failing := &fakeSweeper{err: errors.New("database is locked")}
	if got := sweep(context.Background(), failing, time.Hour); got != 0 {
		t.Errorf("failed sweep = %d, want 0", got)
	}
}

func TestWorkerRunsUntilCanceled(t *testing.T) {
	repo := &fakeSweeper{}
	ctx, cancel := context.WithCancel(context.Background())
	startWorker(ctx, repo, time.Minute, 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for repo.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if repo.calls.Load() < 2 {
		t.Fatalf("expected at least two sweeps, got %d", repo.calls.Load())
	}

	cancel()
	time.Sleep(30 * time.Millisecond)
	after := repo.calls.Load()
	time.Sleep(50 * time.Millisecond)
	if repo.calls.Load() != after {
		t.Error("worker kept sweeping after cancel")
	}
}
