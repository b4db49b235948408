package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"talent-screen/backend/internal/security"
)

func TestAuth_NoToken(t *testing.T) {
	tokens := security.NewTestTokenProvider()
	called := false
	h := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil))

	if called {
		t.Error("handler called without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	tokens := security.NewTestTokenProvider()
	access, _, err := tokens.IssueAccess("user-1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	var gotUserID string
	h := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotUserID != "user-1" {
		t.Errorf("user id = %q, want %q", gotUserID, "user-1")
	}
}

func TestAuth_RefreshTokenRejected(t *testing.T) {
	tokens := security.NewTestTokenProvider()
	refresh, _, err := tokens.IssueRefresh("user-1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	h := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler called with a refresh token as access token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestExtractBearer(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"BEARER abc123", "abc123"},
		{"Bearer   abc123  ", "abc123"},
		{"Basic abc123", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if got := extractBearer(req); got != tc.want {
			t.Errorf("extractBearer(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.5:4444"
	if got := ClientIP(req); got != "203.0.113.5" {
		t.Errorf("remote addr: got %q", got)
	}

	req.Header.Set("X-Real-IP", "198.51.100.7")
	if got := ClientIP(req); got != "198.51.100.7" {
		t.Errorf("x-real-ip: got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "192.0.2.1, 198.51.100.7")
	if got := ClientIP(req); got != "192.0.2.1" {
		t.Errorf("x-forwarded-for: got %q", got)
	}
}

func TestClientIPFromContext_Unset(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := ClientIPFromContext(req.Context()); got != "unknown" {
		t.Errorf("got %q, want %q", got, "unknown")
	}
}
