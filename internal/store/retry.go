package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/ashureev/apex-collect/internal/shared"
)

const (
	writeMaxRetries = 3
	writeBaseDelay  = 50 * time.Millisecond
)

// withRetry runs op, retrying database conflict errors with exponential backoff.
func withRetry(ctx context.Context, name string, op func() error) error {
	var err error
	for i := 0; i < writeMaxRetries; i++ {
		err = op()
		if err == nil || !shared.IsConflictError(err) {
			return err
		}
		if i == writeMaxRetries-1 {
			break
		}

		delay := writeBaseDelay * time.Duration(1<<i) // 50ms, 100ms
		slog.Debug("Database busy, retrying", "op", name, "attempt", i+1, "delay", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
