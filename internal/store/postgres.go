package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ashureev/apex-collect/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Repository on a pgx connection pool. It is used
// instead of SQLite when several server replicas share session state.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to databaseURL and ensures the schema exists.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConns = 25
	poolCfg.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS chat_sessions (
		session_id TEXT PRIMARY KEY,
		customer_row INTEGER,
		customer_name TEXT,
		transcript_json TEXT NOT NULL DEFAULT '[]',
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chat_sessions_updated ON chat_sessions(updated_at);
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// GetSession retrieves a session by ID.
func (s *PostgresStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	query := `
		SELECT session_id, customer_row, customer_name, transcript_json, created_at, updated_at
		FROM chat_sessions WHERE session_id = $1`

	var session domain.Session
	var customerRow sql.NullInt64
	var customerName sql.NullString
	var transcriptJSON string
	var createdAt, updatedAt int64

	err := s.pool.QueryRow(ctx, query, sessionID).Scan(
		&session.ID, &customerRow, &customerName, &transcriptJSON, &createdAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}

	session.Customer = selectedCustomer(customerRow, customerName)
	session.Transcript, err = decodeTranscript(transcriptJSON)
	if err != nil {
		return nil, err
	}
	session.CreatedAt = time.Unix(createdAt, 0)
	session.UpdatedAt = time.Unix(updatedAt, 0)

	return &session, nil
}

// UpsertSession creates or replaces a session's state.
func (s *PostgresStore) UpsertSession(ctx context.Context, session *domain.Session) error {
	transcriptJSON, err := encodeTranscript(session.Transcript)
	if err != nil {
		return err
	}
	customerRow, customerName := customerColumns(session.Customer)

	now := time.Now()
	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	query := `
	INSERT INTO chat_sessions (session_id, customer_row, customer_name, transcript_json, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (session_id) DO UPDATE SET
		customer_row = EXCLUDED.customer_row,
		customer_name = EXCLUDED.customer_name,
		transcript_json = EXCLUDED.transcript_json,
		updated_at = EXCLUDED.updated_at`

	err = withRetry(ctx, "upsert_session", func() error {
		_, execErr := s.pool.Exec(ctx, query,
			session.ID, customerRow, customerName, transcriptJSON,
			createdAt.Unix(), now.Unix(),
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// DeleteSession removes a session's state.
func (s *PostgresStore) DeleteSession(ctx context.Context, sessionID string) error {
	err := withRetry(ctx, "delete_session", func() error {
		_, execErr := s.pool.Exec(ctx, `DELETE FROM chat_sessions WHERE session_id = $1`, sessionID)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes sessions older than TTL.
func (s *PostgresStore) CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error) {
	threshold := time.Now().Add(-ttl).Unix()
	tag, err := s.pool.Exec(ctx, `DELETE FROM chat_sessions WHERE updated_at < $1`, threshold)
	if err != nil {
		return 0, fmt.Errorf("cleanup expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
