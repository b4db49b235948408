package security

import (
	"errors"
	"testing"
	"time"
)

func TestTokenProvider_IssueAccessAndRefresh(t *testing.T) {
	p := NewTestTokenProvider()

	access, exp, err := p.IssueAccess("u1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if access == "" {
		t.Fatal("access token empty")
	}
	if exp.Before(time.Now()) {
		t.Fatal("access expires at in the past")
	}

	refresh, refreshExp, err := p.IssueRefresh("u1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if refresh == "" {
		t.Fatal("refresh token empty")
	}
	if refreshExp.Before(exp) {
		t.Fatal("refresh should outlive access token")
	}

	uid, err := p.ValidateAccess(access)
	if err != nil {
		t.Fatalf("ValidateAccess: %v", err)
	}
	if uid != "u1" {
		t.Errorf("ValidateAccess userID = %q, want u1", uid)
	}

	uid, err = p.ValidateRefresh(refresh)
	if err != nil {
		t.Fatalf("ValidateRefresh: %v", err)
	}
	if uid != "u1" {
		t.Errorf("ValidateRefresh userID = %q, want u1", uid)
	}
}

func TestTokenProvider_SecretsAreIndependent(t *testing.T) {
	p := NewTestTokenProvider()

	access, _, err := p.IssueAccess("u1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := p.ValidateRefresh(access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token accepted as refresh: err = %v", err)
	}

	refresh, _, err := p.IssueRefresh("u1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if _, err := p.ValidateAccess(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh token accepted as access: err = %v", err)
	}
}

func TestTokenProvider_ValidateInvalid(t *testing.T) {
	p := NewTestTokenProvider()
	if _, err := p.ValidateAccess("invalid-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateAccess invalid token: want ErrInvalidToken, got %v", err)
	}
	if _, err := p.ValidateRefresh(""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateRefresh empty token: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_Expired(t *testing.T) {
	p := NewTokenProvider([]byte("a"), []byte("r"), "test-issuer", -time.Minute, -time.Minute)
	access, _, err := p.IssueAccess("u1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := p.ValidateAccess(access); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("ValidateAccess expired token: want ErrTokenExpired, got %v", err)
	}
	refresh, _, err := p.IssueRefresh("u1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if _, err := p.ValidateRefresh(refresh); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("ValidateRefresh expired token: want ErrTokenExpired, got %v", err)
	}
}

func TestTokenProvider_WrongIssuer(t *testing.T) {
	p1 := NewTokenProvider([]byte("a"), []byte("r"), "issuer-1", time.Minute, time.Hour)
	p2 := NewTokenProvider([]byte("a"), []byte("r"), "issuer-2", time.Minute, time.Hour)
	access, _, err := p1.IssueAccess("u1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := p2.ValidateAccess(access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token with wrong issuer accepted: err = %v", err)
	}
}
