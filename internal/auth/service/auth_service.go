package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"talent-screen/backend/internal/audit"
	"talent-screen/backend/internal/mail"
	"talent-screen/backend/internal/security"
	"talent-screen/backend/internal/session"
	userdomain "talent-screen/backend/internal/user/domain"
	userrepo "talent-screen/backend/internal/user/repository"
)

// Sentinel errors for the auth service; the HTTP handler maps them to
// status codes and envelope messages.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses carry no enumeration signal.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	// ErrInvalidOrExpiredToken covers verification and reset tokens.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrPasswordMismatch      = errors.New("passwords do not match")
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrWeakPassword          = errors.New("password must be at least 8 characters")
	ErrUserNotFound          = errors.New("user not found")
)

// AuthResult holds the outcome of Register, Login, or Refresh.
type AuthResult struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
	User            *userdomain.User
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	GetByVerificationTokenHash(ctx context.Context, tokenHash string) (*userdomain.User, error)
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SetVerificationToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	MarkEmailVerified(ctx context.Context, userID string) error
	SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	ResetPassword(ctx context.Context, userID, passwordHash string) error
}

// AuthService implements register, login, refresh with rotation, logout,
// email verification, and the password reset/change flows.
type AuthService struct {
	users           UserRepo
	sessions        session.Store
	hasher          *security.Hasher
	tokens          *security.TokenProvider
	mailer          mail.Mailer
	auditor         audit.AuditLogger
	logger          *slog.Logger
	verificationTTL time.Duration
	resetTTL        time.Duration
}

// NewAuthService returns an AuthService with the given dependencies.
// mailer, auditor, and logger may be nil.
func NewAuthService(
	users UserRepo,
	sessions session.Store,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	mailer mail.Mailer,
	auditor audit.AuditLogger,
	logger *slog.Logger,
	verificationTTL, resetTTL time.Duration,
) *AuthService {
	if verificationTTL <= 0 {
		verificationTTL = 24 * time.Hour
	}
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &AuthService{
		users:           users,
		sessions:        sessions,
		hasher:          hasher,
		tokens:          tokens,
		mailer:          mailer,
		auditor:         auditor,
		logger:          logger,
		verificationTTL: verificationTTL,
		resetTTL:        resetTTL,
	}
}

// Register creates a user, logs them in (token pair), and dispatches a
// verification email. The mail send is fire-and-forget; its failure never
// fails registration.
func (s *AuthService) Register(ctx context.Context, name, email, password, company string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &userdomain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		Company:      strings.TrimSpace(company),
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The exists-check and the insert are separate statements; a
		// concurrent registration for the same email loses at the
		// unique constraint instead.
		if errors.Is(err, userrepo.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}

	verificationToken, err := security.GenerateOneTimeToken()
	if err != nil {
		return nil, err
	}
	verificationExp := now.Add(s.verificationTTL)
	if err := s.users.SetVerificationToken(ctx, user.ID, security.HashOneTimeToken(verificationToken), verificationExp); err != nil {
		return nil, err
	}
	user.VerificationTokenHash = security.HashOneTimeToken(verificationToken)
	user.VerificationExpiresAt = &verificationExp

	result, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}
	s.dispatchMail(user.Email, func(mailCtx context.Context) error {
		return s.mailer.SendVerification(mailCtx, user.Email, user.Name, verificationToken)
	})
	s.auditLog(ctx, user.ID, audit.ActionRegister, "")
	return result, nil
}

// Login authenticates with email/password and returns a fresh token pair.
// Unknown email and wrong password yield the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.auditLog(ctx, "", audit.ActionLoginFailure, email)
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		s.auditLog(ctx, user.ID, audit.ActionLoginFailure, "")
		return nil, ErrInvalidCredentials
	}
	result, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}
	s.auditLog(ctx, user.ID, audit.ActionLoginSuccess, "")
	return result, nil
}

// Refresh validates the refresh token, rotates it, and returns a new pair.
// Presenting a token that was already rotated out is treated as compromise:
// the stored hash is cleared so every outstanding token dies with it.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	userID, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, ErrRefreshTokenExpired
		}
		return nil, ErrInvalidRefreshToken
	}
	stored, exists, err := s.sessions.GetRefreshHash(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists || stored == "" {
		return nil, ErrInvalidRefreshToken
	}
	if !security.RefreshTokenHashEqual(refreshToken, stored) {
		// Reuse of a rotated-out token. Kill the session entirely.
		if clearErr := s.sessions.Clear(ctx, userID); clearErr != nil && s.logger != nil {
			s.logger.Error("clearing session after refresh reuse", slog.String("user_id", userID), slog.String("error", clearErr.Error()))
		}
		s.auditLog(ctx, userID, audit.ActionRefreshReuse, "")
		return nil, ErrInvalidRefreshToken
	}

	newRefresh, _, err := s.tokens.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}
	rotated, err := s.sessions.Rotate(ctx, userID, stored, security.HashRefreshToken(newRefresh))
	if err != nil {
		return nil, err
	}
	if !rotated {
		// A concurrent refresh won the compare-and-swap; this token is stale.
		return nil, ErrInvalidRefreshToken
	}
	accessToken, accessExp, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.auditLog(ctx, userID, audit.ActionRefresh, "")
	return &AuthResult{
		AccessToken:     accessToken,
		RefreshToken:    newRefresh,
		AccessExpiresAt: accessExp,
		User:            user,
	}, nil
}

// Logout clears the stored refresh hash for the token's user. Idempotent:
// an invalid or already-cleared token is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	userID, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil
	}
	if err := s.sessions.Clear(ctx, userID); err != nil {
		return err
	}
	s.auditLog(ctx, userID, audit.ActionLogout, "")
	return nil
}

// RequestPasswordReset generates a reset token for the account and emails
// it. Always succeeds from the caller's view, even for unknown emails, so
// the endpoint carries no enumeration signal.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	resetToken, err := security.GenerateOneTimeToken()
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(s.resetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, security.HashOneTimeToken(resetToken), expiresAt); err != nil {
		return err
	}
	s.dispatchMail(user.Email, func(mailCtx context.Context) error {
		return s.mailer.SendPasswordReset(mailCtx, user.Email, user.Name, resetToken)
	})
	s.auditLog(ctx, user.ID, audit.ActionPasswordReset, "requested")
	return nil
}

// ResetPassword consumes a reset token and sets the new password. All
// existing sessions are invalidated so the token holder must log in again.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if token == "" {
		return ErrInvalidOrExpiredToken
	}
	user, err := s.users.GetByResetTokenHash(ctx, security.HashOneTimeToken(token))
	if err != nil {
		return err
	}
	if user == nil || !security.OneTimeTokenEqual(token, user.ResetTokenHash) {
		return ErrInvalidOrExpiredToken
	}
	if user.ResetExpiresAt == nil || time.Now().UTC().After(*user.ResetExpiresAt) {
		return ErrInvalidOrExpiredToken
	}
	hashed, err := s.hasher.Hash([]byte(newPassword))
	if err != nil {
		return err
	}
	if err := s.users.ResetPassword(ctx, user.ID, hashed); err != nil {
		return err
	}
	s.auditLog(ctx, user.ID, audit.ActionPasswordReset, "completed")
	return nil
}

// ChangePassword verifies the current password and stores the new one.
// Existing sessions stay valid; only the credential changes.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := s.hasher.Hash([]byte(newPassword))
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}
	s.auditLog(ctx, user.ID, audit.ActionPasswordChanged, "")
	return nil
}

// VerifyEmail consumes a verification token and marks the email verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidOrExpiredToken
	}
	user, err := s.users.GetByVerificationTokenHash(ctx, security.HashOneTimeToken(token))
	if err != nil {
		return err
	}
	if user == nil || !security.OneTimeTokenEqual(token, user.VerificationTokenHash) {
		return ErrInvalidOrExpiredToken
	}
	if user.VerificationExpiresAt == nil || time.Now().UTC().After(*user.VerificationExpiresAt) {
		return ErrInvalidOrExpiredToken
	}
	if err := s.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return err
	}
	s.auditLog(ctx, user.ID, audit.ActionEmailVerified, "")
	return nil
}

// Profile returns the user record for userID.
func (s *AuthService) Profile(ctx context.Context, userID string) (*userdomain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// issuePair issues an access/refresh pair and stores the refresh hash as
// the user's current session.
func (s *AuthService) issuePair(ctx context.Context, user *userdomain.User) (*AuthResult, error) {
	refreshToken, _, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.SetRefreshHash(ctx, user.ID, security.HashRefreshToken(refreshToken)); err != nil {
		return nil, err
	}
	accessToken, accessExp, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessExpiresAt: accessExp,
		User:            user,
	}, nil
}

func (s *AuthService) dispatchMail(toEmail string, send func(context.Context) error) {
	if s.mailer == nil {
		return
	}
	mail.SendAsync(s.logger, toEmail, send)
}

func (s *AuthService) auditLog(ctx context.Context, userID, action, metadata string) {
	if s.auditor != nil {
		s.auditor.LogEvent(ctx, userID, action, audit.ResourceAuth, metadata)
	}
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	return nil
}
