package repository

import (
	"context"
	"errors"
	"time"

	"talent-screen/backend/internal/user/domain"
)

// ErrDuplicateEmail is returned by Create when the email unique constraint
// is violated, e.g. by a concurrent registration that slipped past the
// service's exists-check.
var ErrDuplicateEmail = errors.New("email already exists")

// Repository defines persistence for users. Lookups return nil (not an
// error) when no row matches; errors are database failures only.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByVerificationTokenHash(ctx context.Context, tokenHash string) (*domain.User, error)
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	// SetVerificationToken stores a pending email-verification token hash and expiry.
	SetVerificationToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	// MarkEmailVerified sets email_verified and clears the verification fields
	// in a single statement, so the token cannot be consumed twice.
	MarkEmailVerified(ctx context.Context, userID string) error
	// SetResetToken stores a pending password-reset token hash and expiry.
	SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	// ResetPassword replaces the password hash, clears the reset fields, and
	// clears the refresh-token hash (forcing re-login) in a single statement.
	ResetPassword(ctx context.Context, userID, passwordHash string) error
	// IncrementUsage atomically increments the counter when it is below
	// limit (limit <= 0 means uncapped) and returns the new value.
	// ok is false when no row was updated: either the user does not exist
	// or the counter is at its ceiling; the value is unchanged in both cases.
	IncrementUsage(ctx context.Context, userID string, counter domain.Counter, limit int) (newCount int, ok bool, err error)
	// GetUsage returns the user's counters, or nil if the user does not exist.
	GetUsage(ctx context.Context, userID string) (*domain.Usage, error)
}
