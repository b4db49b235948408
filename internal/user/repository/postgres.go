package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"talent-screen/backend/internal/user/domain"
)

// uniqueViolation is the Postgres error code for a unique constraint violation.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, name, company, password_hash,
	email_verified, verification_token_hash, verification_expires_at,
	reset_token_hash, reset_expires_at, refresh_token_hash,
	files_uploaded, batch_analysis, compare_resumes, selected_candidate,
	created_at, updated_at`

// counterColumns maps counter names to their column. Counters not in this
// map are rejected before any SQL is built.
var counterColumns = map[domain.Counter]string{
	domain.CounterFilesUploaded:     "files_uploaded",
	domain.CounterBatchAnalysis:     "batch_analysis",
	domain.CounterCompareResumes:    "compare_resumes",
	domain.CounterSelectedCandidate: "selected_candidate",
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail returns the user with the given email, or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "email = $1", email)
}

// GetByVerificationTokenHash returns the user with a pending verification
// token matching tokenHash, or nil if none.
func (r *PostgresRepository) GetByVerificationTokenHash(ctx context.Context, tokenHash string) (*domain.User, error) {
	return r.getOne(ctx, "verification_token_hash = $1", tokenHash)
}

// GetByResetTokenHash returns the user with a pending reset token matching
// tokenHash, or nil if none.
func (r *PostgresRepository) GetByResetTokenHash(ctx context.Context, tokenHash string) (*domain.User, error) {
	return r.getOne(ctx, "reset_token_hash = $1", tokenHash)
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s", userColumns, where)
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// Create persists the user to the database. The user must have ID set; it is
// not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, email, name, company, password_hash,
			email_verified, verification_token_hash, verification_expires_at,
			reset_token_hash, reset_expires_at, refresh_token_hash,
			files_uploaded, batch_analysis, compare_resumes, selected_candidate,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Email, u.Name, u.Company, u.PasswordHash,
		u.EmailVerified, nullString(u.VerificationTokenHash), timeToNullTime(u.VerificationExpiresAt),
		nullString(u.ResetTokenHash), timeToNullTime(u.ResetExpiresAt), nullString(u.RefreshTokenHash),
		u.Usage.FilesUploaded, u.Usage.BatchAnalysis, u.Usage.CompareResumes, u.Usage.SelectedCandidate,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID, passwordHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SetVerificationToken stores a pending email-verification token hash and expiry.
func (r *PostgresRepository) SetVerificationToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	query := `
		UPDATE users SET verification_token_hash = $2, verification_expires_at = $3, updated_at = $4
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID, tokenHash, expiresAt, time.Now().UTC()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// MarkEmailVerified sets email_verified and clears the verification fields.
// The token-hash predicate makes consumption single-use under concurrency.
func (r *PostgresRepository) MarkEmailVerified(ctx context.Context, userID string) error {
	query := `
		UPDATE users SET email_verified = TRUE,
			verification_token_hash = NULL, verification_expires_at = NULL, updated_at = $2
		WHERE id = $1 AND verification_token_hash IS NOT NULL
	`
	if _, err := r.db.ExecContext(ctx, query, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SetResetToken stores a pending password-reset token hash and expiry.
func (r *PostgresRepository) SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	query := `
		UPDATE users SET reset_token_hash = $2, reset_expires_at = $3, updated_at = $4
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID, tokenHash, expiresAt, time.Now().UTC()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ResetPassword replaces the password hash, clears the reset fields, and
// clears the refresh-token hash so existing sessions must log in again.
func (r *PostgresRepository) ResetPassword(ctx context.Context, userID, passwordHash string) error {
	query := `
		UPDATE users SET password_hash = $2,
			reset_token_hash = NULL, reset_expires_at = NULL,
			refresh_token_hash = NULL, updated_at = $3
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID, passwordHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// IncrementUsage atomically increments the counter when below limit.
// The check and increment are one UPDATE, so concurrent requests cannot
// push the counter past the ceiling.
func (r *PostgresRepository) IncrementUsage(ctx context.Context, userID string, counter domain.Counter, limit int) (int, bool, error) {
	col, known := counterColumns[counter]
	if !known {
		return 0, false, fmt.Errorf("unknown counter %q", counter)
	}
	query := fmt.Sprintf(`
		UPDATE users SET %s = %s + 1, updated_at = $3
		WHERE id = $1 AND ($2 <= 0 OR %s < $2)
		RETURNING %s
	`, col, col, col, col)
	var newCount int
	err := r.db.QueryRowContext(ctx, query, userID, limit, time.Now().UTC()).Scan(&newCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("db error: %w", err)
	}
	return newCount, true, nil
}

// GetUsage returns the user's counters, or nil if the user does not exist.
func (r *PostgresRepository) GetUsage(ctx context.Context, userID string) (*domain.Usage, error) {
	query := `
		SELECT files_uploaded, batch_analysis, compare_resumes, selected_candidate
		FROM users WHERE id = $1
	`
	var u domain.Usage
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&u.FilesUploaded, &u.BatchAnalysis, &u.CompareResumes, &u.SelectedCandidate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var verificationHash, resetHash, refreshHash sql.NullString
	var verificationExp, resetExp sql.NullTime
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.Company, &u.PasswordHash,
		&u.EmailVerified, &verificationHash, &verificationExp,
		&resetHash, &resetExp, &refreshHash,
		&u.Usage.FilesUploaded, &u.Usage.BatchAnalysis, &u.Usage.CompareResumes, &u.Usage.SelectedCandidate,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.VerificationTokenHash = verificationHash.String
	u.ResetTokenHash = resetHash.String
	u.RefreshTokenHash = refreshHash.String
	u.VerificationExpiresAt = nullTimeToPtr(verificationExp)
	u.ResetExpiresAt = nullTimeToPtr(resetExp)
	return &u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullTimeToPtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	return &n.Time
}
