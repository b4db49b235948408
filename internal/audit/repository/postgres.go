package repository

import (
	"context"
	"database/sql"
	"fmt"

	"talent-screen/backend/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit log repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the audit log. The audit log must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, action, resource, ip, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	uid := sql.NullString{String: a.UserID, Valid: a.UserID != ""}
	meta := sql.NullString{String: a.Metadata, Valid: a.Metadata != ""}
	if _, err := r.db.ExecContext(ctx, query, a.ID, uid, a.Action, a.Resource, a.IP, meta, a.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListByUser returns audit logs for the given user, newest first, paginated
// by limit and offset.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error) {
	query := `
		SELECT id, user_id, action, resource, ip, metadata, created_at
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*domain.AuditLog
	for rows.Next() {
		var a domain.AuditLog
		var uid, meta sql.NullString
		if err := rows.Scan(&a.ID, &uid, &a.Action, &a.Resource, &a.IP, &meta, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		a.UserID = uid.String
		a.Metadata = meta.String
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
