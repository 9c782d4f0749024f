// Package expiry sweeps idle conversation sessions out of the store.
package expiry

import (
	"context"
	"log/slog"
	"time"
)

const ttlWorkerInterval = 5 * time.Minute

// Sweeper deletes sessions not updated within ttl.
type Sweeper interface {
	CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error)
}

// StartTTLWorker runs a background goroutine that periodically removes
// sessions idle for longer than ttl. It stops when ctx is canceled.
func StartTTLWorker(ctx context.Context, repo Sweeper, ttl time.Duration) {
	startWorker(ctx, repo, ttl, ttlWorkerInterval)
}

func startWorker(ctx context.Context, repo Sweeper, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("TTL worker started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				sweep(ctx, repo, ttl)
			case <-ctx.Done():
				slog.Info("TTL worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func sweep(ctx context.Context, repo Sweeper, ttl time.Duration) int64 {
	deleted, err := repo.CleanupExpiredSessions(ctx, ttl)
	if err != nil {
		if ctx.Err() != nil {
			slog.Debug("TTL worker: context canceled during sweep", "error", err)
			return 0
		}
		slog.Error("TTL worker failed to remove expired sessions", "error", err)
		return 0
	}
	if deleted > 0 {
		slog.Info("TTL worker removed expired sessions", "count", deleted, "ttl", ttl)
	}
	return deleted
}
