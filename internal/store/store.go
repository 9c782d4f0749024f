// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/ashureev/apex-collect/internal/domain"
)

// Repository persists per-browser-session conversation state.
type Repository interface {
	// GetSession retrieves a session by ID. It returns nil, nil when none exists.
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// UpsertSession creates or replaces the stored state of a session.
	UpsertSession(ctx context.Context, session *domain.Session) error

	// DeleteSession removes a session's state. Deleting a missing session is not an error.
	DeleteSession(ctx context.Context, sessionID string) error

	// CleanupExpiredSessions removes sessions not updated within ttl.
	CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
