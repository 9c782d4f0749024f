package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ashureev/apex-collect/internal/domain"
)

func encodeTranscript(turns []domain.Turn) (string, error) {
	if turns == nil {
		turns = []domain.Turn{}
	}
	data, err := json.Marshal(turns)
	if err != nil {
		return "", fmt.Errorf("encode transcript: %w", err)
	}
	return string(data), nil
}

func decodeTranscript(raw string) ([]domain.Turn, error) {
	turns := []domain.Turn{}
	if raw == "" {
		return turns, nil
	}
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return turns, nil
}

// customerColumns splits the selection into nullable columns.
func customerColumns(c *domain.SelectedCustomer) (row sql.NullInt64, name sql.NullString) {
	if c == nil {
		return row, name
	}
	return sql.NullInt64{Int64: int64(c.Row), Valid: true}, sql.NullString{String: c.Name, Valid: true}
}

// selectedCustomer rebuilds the selection only when both columns are set.
func selectedCustomer(row sql.NullInt64, name sql.NullString) *domain.SelectedCustomer {
	if !row.Valid || !name.Valid {
		return nil
	}
	return &domain.SelectedCustomer{Row: int(row.Int64), Name: name.String}
}
