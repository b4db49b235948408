// Package usage tracks per-user feature counters and enforces their
// ceilings. Increment and check happen in one repository statement, so
// parallel requests from the same user cannot exceed a limit.
package usage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"talent-screen/backend/internal/audit"
	"talent-screen/backend/internal/user/domain"
)

var (
	// ErrLimitExceeded is returned when a counter is at its ceiling. The
	// stored value is unchanged.
	ErrLimitExceeded = errors.New("usage limit exceeded")
	// ErrUnknownCounter is returned for counter names that do not exist.
	ErrUnknownCounter = errors.New("unknown usage counter")
	// ErrUserNotFound is returned when the user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// Limits maps counters to their ceiling. Zero or a missing entry means
// uncapped; the counter is still incremented and reported.
type Limits map[domain.Counter]int

// DefaultLimits caps selected_candidate at 10 and leaves the remaining
// counters informational.
func DefaultLimits() Limits {
	return Limits{domain.CounterSelectedCandidate: 10}
}

// Repo is the minimal user repository needed by the usage service.
type Repo interface {
	IncrementUsage(ctx context.Context, userID string, counter domain.Counter, limit int) (newCount int, ok bool, err error)
	GetUsage(ctx context.Context, userID string) (*domain.Usage, error)
}

// Service increments and reads usage counters.
type Service struct {
	repo    Repo
	limits  Limits
	auditor audit.AuditLogger
	logger  *slog.Logger
}

// NewService returns a usage service enforcing the given limits.
// auditor and logger may be nil.
func NewService(repo Repo, limits Limits, auditor audit.AuditLogger, logger *slog.Logger) *Service {
	if limits == nil {
		limits = DefaultLimits()
	}
	return &Service{repo: repo, limits: limits, auditor: auditor, logger: logger}
}

// CheckAndIncrement bumps the counter for the user and returns the new
// value. Returns ErrLimitExceeded, leaving the counter unchanged, when the
// counter is at its ceiling.
func (s *Service) CheckAndIncrement(ctx context.Context, userID string, counter domain.Counter) (int, error) {
	if !counter.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCounter, counter)
	}
	limit := s.limits[counter]
	newCount, ok, err := s.repo.IncrementUsage(ctx, userID, counter, limit)
	if err != nil {
		return 0, err
	}
	if ok {
		return newCount, nil
	}
	// No row updated: user missing or ceiling reached.
	current, err := s.repo.GetUsage(ctx, userID)
	if err != nil {
		return 0, err
	}
	if current == nil {
		return 0, ErrUserNotFound
	}
	if s.auditor != nil {
		s.auditor.LogEvent(ctx, userID, audit.ActionLimitExceeded, audit.ResourceUsage, string(counter))
	}
	if s.logger != nil {
		s.logger.Info("usage limit exceeded",
			slog.String("user_id", userID),
			slog.String("counter", string(counter)),
			slog.Int("limit", limit),
		)
	}
	return 0, ErrLimitExceeded
}

// Stats returns the user's counters. Returns ErrUserNotFound when the user
// does not exist.
func (s *Service) Stats(ctx context.Context, userID string) (*domain.Usage, error) {
	u, err := s.repo.GetUsage(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
