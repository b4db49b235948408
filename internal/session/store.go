// Package session persists the per-user refresh-token hash. A user has at
// most one live refresh token; its SHA-256 hash on the user row is the only
// server-side session state.
package session

import "context"

// Store is the session store adapter used by the auth service. All writes
// are atomic per user row so concurrent refresh attempts serialize.
type Store interface {
	// GetRefreshHash returns the stored hash, or "" when the user has no
	// live session. ok is false when the user does not exist.
	GetRefreshHash(ctx context.Context, userID string) (hash string, ok bool, err error)
	// SetRefreshHash stores hash as the user's current session, replacing
	// any previous one (login).
	SetRefreshHash(ctx context.Context, userID, hash string) error
	// Rotate atomically swaps expectedHash for newHash. Returns false when
	// the stored hash no longer equals expectedHash — exactly one of two
	// concurrent rotations with the same expected hash can win.
	Rotate(ctx context.Context, userID, expectedHash, newHash string) (bool, error)
	// Clear removes the stored hash (logout, or reuse compromise).
	// Idempotent: clearing an absent hash is not an error.
	Clear(ctx context.Context, userID string) error
}
