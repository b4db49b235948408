package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

const oneTimeTokenBytes = 32

// GenerateOneTimeToken returns a random hex token for email verification or
// password reset links. Uses crypto/rand.
func GenerateOneTimeToken() (string, error) {
	b := make([]byte, oneTimeTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashOneTimeToken returns a SHA-256 hash of the token string, hex-encoded.
// Only the hash is stored; the raw token goes into the email link.
func HashOneTimeToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// OneTimeTokenEqual performs constant-time comparison of the provided
// token's hash with the stored hash.
func OneTimeTokenEqual(providedToken, storedHash string) bool {
	providedHash := HashOneTimeToken(providedToken)
	return subtle.ConstantTimeCompare([]byte(providedHash), []byte(storedHash)) == 1
}
