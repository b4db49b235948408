package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns a session store over the users table.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetRefreshHash returns the stored refresh-token hash for the user, or ""
// when none. ok is false when the user does not exist.
func (s *PostgresStore) GetRefreshHash(ctx context.Context, userID string) (string, bool, error) {
	var hash sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT refresh_token_hash FROM users WHERE id = $1`, userID).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("db error: %w", err)
	}
	return hash.String, true, nil
}

// SetRefreshHash stores hash as the user's current session.
func (s *PostgresStore) SetRefreshHash(ctx context.Context, userID, hash string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET refresh_token_hash = $2, updated_at = $3 WHERE id = $1`,
		userID, hash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Rotate swaps expectedHash for newHash with a compare-and-swap UPDATE.
// The row predicate serializes concurrent rotations: the second caller sees
// zero rows updated and must treat the token as stale.
func (s *PostgresStore) Rotate(ctx context.Context, userID, expectedHash, newHash string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET refresh_token_hash = $3, updated_at = $4
		 WHERE id = $1 AND refresh_token_hash = $2`,
		userID, expectedHash, newHash, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

// Clear removes the stored hash. Idempotent.
func (s *PostgresStore) Clear(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET refresh_token_hash = NULL, updated_at = $2 WHERE id = $1`,
		userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
