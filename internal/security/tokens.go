package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, has a bad
	// signature, or was signed with the wrong secret.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned when a token is well-formed and correctly
	// signed but past its expiry. Callers use the distinction to prompt a
	// refresh instead of a re-login.
	ErrTokenExpired = errors.New("token expired")
)

// Claims holds the JWT claim set for both access and refresh tokens.
// Subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenProvider issues and validates JWT access and refresh tokens using
// HS256 with two independent secrets. A leaked access secret cannot be used
// to mint refresh tokens, and vice versa.
type TokenProvider struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenProvider returns a TokenProvider signing with accessSecret and
// refreshSecret. issuer is set on claims and validated on parse.
func NewTokenProvider(accessSecret, refreshSecret []byte, issuer string, accessTTL, refreshTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueAccess issues a short-lived access JWT for the given user.
// Returns the token string and its expiration time.
func (p *TokenProvider) IssueAccess(userID string) (token string, expiresAt time.Time, err error) {
	return p.issue(userID, p.accessSecret, p.accessTTL)
}

// IssueRefresh issues a long-lived refresh JWT for the given user, signed
// with the refresh secret. The caller must store only a hash of the token
// (see HashRefreshToken).
func (p *TokenProvider) IssueRefresh(userID string) (token string, expiresAt time.Time, err error) {
	return p.issue(userID, p.refreshSecret, p.refreshTTL)
}

func (p *TokenProvider) issue(userID string, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateAccess parses and validates an access token (signature, exp, iss).
// Returns the user id, or ErrTokenExpired / ErrInvalidToken.
func (p *TokenProvider) ValidateAccess(tokenString string) (userID string, err error) {
	return p.validate(tokenString, p.accessSecret)
}

// ValidateRefresh parses and validates a refresh token (signature, exp, iss).
// Returns the user id. Callers must additionally confirm the token's hash
// against the stored hash for that user; signature validity alone does not
// prove the token is still current.
func (p *TokenProvider) ValidateRefresh(tokenString string) (userID string, err error) {
	return p.validate(tokenString, p.refreshSecret)
}

func (p *TokenProvider) validate(tokenString string, secret []byte) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Issuer != p.issuer {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
