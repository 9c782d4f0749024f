package store

import (
	"context"

	"github.com/ashureev/apex-collect/internal/config"
)

// Ensure implementations satisfy Repository.
var (
	_ Repository = (*SQLiteStore)(nil)
	_ Repository = (*PostgresStore)(nil)
)

// Open returns the Postgres store when DATABASE_URL is configured and the
// SQLite store otherwise.
func Open(ctx context.Context, cfg *config.Config) (Repository, string, error) {
	if cfg.DatabaseURL != "" {
		repo, err := NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, "postgres", err
		}
		return repo, "postgres", nil
	}
	repo, err := NewSQLite(cfg.DBPath)
	if err != nil {
		return nil, "sqlite", err
	}
	return repo, "sqlite", nil
}
