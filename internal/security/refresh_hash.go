package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashRefreshToken returns a SHA-256 hash of the refresh token string,
// hex-encoded. The hash is the only server-side record of the token; the
// raw token is never persisted.
func HashRefreshToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// RefreshTokenHashEqual performs constant-time comparison of the provided
// token's hash with the stored hash. Returns true only if they match.
func RefreshTokenHashEqual(providedToken, storedHash string) bool {
	providedHash := HashRefreshToken(providedToken)
	return subtle.ConstantTimeCompare([]byte(providedHash), []byte(storedHash)) == 1
}
