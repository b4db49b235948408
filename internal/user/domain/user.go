package domain

import (
	"errors"
	"time"
)

// User is the core user entity. The password and all tokens are stored as
// hashes only; plaintext never reaches the repository.
type User struct {
	ID           string
	Email        string
	Name         string
	Company      string
	PasswordHash string

	EmailVerified         bool
	VerificationTokenHash string     // empty once consumed
	VerificationExpiresAt *time.Time // nil when no verification pending

	ResetTokenHash string     // empty once consumed
	ResetExpiresAt *time.Time // nil when no reset pending

	RefreshTokenHash string // empty when logged out

	Usage Usage

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Usage holds the per-user feature counters.
type Usage struct {
	FilesUploaded     int
	BatchAnalysis     int
	CompareResumes    int
	SelectedCandidate int
}

// Counter names a usage counter. Values match the API's snake_case names.
type Counter string

const (
	CounterFilesUploaded     Counter = "files_uploaded"
	CounterBatchAnalysis     Counter = "batch_analysis"
	CounterCompareResumes    Counter = "compare_resumes"
	CounterSelectedCandidate Counter = "selected_candidate"
)

// Counters lists all known usage counters.
var Counters = []Counter{
	CounterFilesUploaded,
	CounterBatchAnalysis,
	CounterCompareResumes,
	CounterSelectedCandidate,
}

// Valid reports whether c names a known counter.
func (c Counter) Valid() bool {
	switch c {
	case CounterFilesUploaded, CounterBatchAnalysis, CounterCompareResumes, CounterSelectedCandidate:
		return true
	}
	return false
}

// Get returns the value of counter c.
func (u Usage) Get(c Counter) int {
	switch c {
	case CounterFilesUploaded:
		return u.FilesUploaded
	case CounterBatchAnalysis:
		return u.BatchAnalysis
	case CounterCompareResumes:
		return u.CompareResumes
	case CounterSelectedCandidate:
		return u.SelectedCandidate
	}
	return 0
}

// Validate validates the user for persistence. Returns an error describing
// the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
