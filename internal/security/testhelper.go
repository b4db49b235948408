package security

import "time"

// NewTestTokenProvider returns a TokenProvider using fixed secrets.
// For unit tests only.
func NewTestTokenProvider() *TokenProvider {
	return NewTokenProvider(
		[]byte("test-access-secret"),
		[]byte("test-refresh-secret"),
		"test-issuer",
		15*time.Minute,
		7*24*time.Hour,
	)
}
