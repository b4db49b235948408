package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.JWTIssuer != "talent-screen" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "talent-screen")
	}
	if cfg.JWTAccessTTL != "15m" {
		t.Errorf("JWTAccessTTL = %q, want %q", cfg.JWTAccessTTL, "15m")
	}
	if cfg.JWTRefreshTTL != "168h" {
		t.Errorf("JWTRefreshTTL = %q, want %q", cfg.JWTRefreshTTL, "168h")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d, want 587", cfg.SMTPPort)
	}
	if cfg.SelectedCandidateLimit != 10 {
		t.Errorf("SelectedCandidateLimit = %d, want 10", cfg.SelectedCandidateLimit)
	}
	if cfg.VerificationTTL != "24h" {
		t.Errorf("VerificationTTL = %q, want %q", cfg.VerificationTTL, "24h")
	}
	if cfg.ResetTTL != "1h" {
		t.Errorf("ResetTTL = %q, want %q", cfg.ResetTTL, "1h")
	}
	if cfg.IsProduction() {
		t.Error("IsProduction should default to false")
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("JWT_ISSUER", "custom-issuer")
	os.Setenv("BCRYPT_COST", "14")
	os.Setenv("SELECTED_CANDIDATE_LIMIT", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.JWTIssuer != "custom-issuer" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "custom-issuer")
	}
	if cfg.BcryptCost != 14 {
		t.Errorf("BcryptCost = %d, want 14", cfg.BcryptCost)
	}
	if cfg.SelectedCandidateLimit != 25 {
		t.Errorf("SelectedCandidateLimit = %d, want 25", cfg.SelectedCandidateLimit)
	}
}

func TestLoad_BcryptCostOutOfRange(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")
	os.Setenv("BCRYPT_COST", "99")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for BCRYPT_COST out of range")
	}
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")
	os.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing JWT secrets in production")
	}

	os.Setenv("JWT_ACCESS_SECRET", "access-secret")
	os.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction = false, want true")
	}
}

func TestLoad_SecretsMustDiffer(t *testing.T) {
	os.Clearenv()
	os.Setenv("HTTP_ADDR", ":8080")
	os.Setenv("JWT_ACCESS_SECRET", "same-secret")
	os.Setenv("JWT_REFRESH_SECRET", "same-secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for identical JWT secrets")
	}
}

func TestTTLHelpers(t *testing.T) {
	cfg := &Config{
		JWTAccessTTL:    "30m",
		JWTRefreshTTL:   "72h",
		VerificationTTL: "12h",
		ResetTTL:        "30m",
	}
	if got := cfg.AccessTTL(); got != 30*time.Minute {
		t.Errorf("AccessTTL = %v, want 30m", got)
	}
	if got := cfg.RefreshTTL(); got != 72*time.Hour {
		t.Errorf("RefreshTTL = %v, want 72h", got)
	}
	if got := cfg.VerificationTokenTTL(); got != 12*time.Hour {
		t.Errorf("VerificationTokenTTL = %v, want 12h", got)
	}
	if got := cfg.ResetTokenTTL(); got != 30*time.Minute {
		t.Errorf("ResetTokenTTL = %v, want 30m", got)
	}

	bad := &Config{JWTAccessTTL: "bogus", JWTRefreshTTL: "", VerificationTTL: "-1h", ResetTTL: "x"}
	if got := bad.AccessTTL(); got != 15*time.Minute {
		t.Errorf("AccessTTL fallback = %v, want 15m", got)
	}
	if got := bad.RefreshTTL(); got != 168*time.Hour {
		t.Errorf("RefreshTTL fallback = %v, want 168h", got)
	}
	if got := bad.VerificationTokenTTL(); got != 24*time.Hour {
		t.Errorf("VerificationTokenTTL fallback = %v, want 24h", got)
	}
	if got := bad.ResetTokenTTL(); got != time.Hour {
		t.Errorf("ResetTokenTTL fallback = %v, want 1h", got)
	}
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: "http://localhost:3000, https://app.example.com ,"}
	got := cfg.CORSOrigins()
	want := []string{"http://localhost:3000", "https://app.example.com"}
	if len(got) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	empty := &Config{}
	if origins := empty.CORSOrigins(); origins != nil {
		t.Errorf("empty CORSOrigins = %v, want nil", origins)
	}
}
