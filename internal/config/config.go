// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTAccessSecret signs access tokens (HS256). Required outside development.
	JWTAccessSecret string `mapstructure:"JWT_ACCESS_SECRET"`
	// JWTRefreshSecret signs refresh tokens (HS256). Must differ from JWTAccessSecret.
	JWTRefreshSecret string `mapstructure:"JWT_REFRESH_SECRET"`
	// JWTIssuer is the iss claim (e.g. "talent-screen").
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAccessTTL is the access token lifetime (e.g. "15m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// JWTRefreshTTL is the refresh token lifetime (e.g. "168h").
	JWTRefreshTTL string `mapstructure:"JWT_REFRESH_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// VerificationTTL is the email verification token lifetime (e.g. "24h").
	VerificationTTL string `mapstructure:"VERIFICATION_TTL"`
	// ResetTTL is the password reset token lifetime (e.g. "1h").
	ResetTTL string `mapstructure:"RESET_TTL"`

	// SMTPHost is the mail server host; empty disables outbound mail.
	SMTPHost string `mapstructure:"SMTP_HOST"`
	// SMTPPort is the mail server port (default 587).
	SMTPPort int `mapstructure:"SMTP_PORT"`
	// SMTPUser is the mail server username.
	SMTPUser string `mapstructure:"SMTP_USER"`
	// SMTPPassword is the mail server password.
	SMTPPassword string `mapstructure:"SMTP_PASS"`
	// FromEmail is the From address on verification and reset mails.
	FromEmail string `mapstructure:"FROM_EMAIL"`
	// AppBaseURL is the frontend base URL used to build links in mails.
	AppBaseURL string `mapstructure:"APP_BASE_URL"`

	// CORSAllowedOrigins is a comma-separated list of allowed origins.
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	// SelectedCandidateLimit is the ceiling for the selected_candidate counter (0 = uncapped).
	SelectedCandidateLimit int `mapstructure:"SELECTED_CANDIDATE_LIMIT"`

	// OTLPEndpoint is the OTLP gRPC collector endpoint; empty disables export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// Env is the application environment (e.g. "development", "production").
	// In production the refresh cookie is marked Secure and JWT secrets are required.
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_ACCESS_SECRET", "")
	v.SetDefault("JWT_REFRESH_SECRET", "")
	v.SetDefault("JWT_ISSUER", "talent-screen")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TTL", "168h") // 7d
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("VERIFICATION_TTL", "24h")
	v.SetDefault("RESET_TTL", "1h")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASS", "")
	v.SetDefault("FROM_EMAIL", "")
	v.SetDefault("APP_BASE_URL", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("SELECTED_CANDIDATE_LIMIT", 10)
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.IsProduction() {
		if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
			return nil, errors.New("config: JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must be set when APP_ENV=production")
		}
	}
	if cfg.JWTAccessSecret != "" && cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
		return nil, errors.New("config: JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	if cfg.SelectedCandidateLimit < 0 {
		return nil, errors.New("config: SELECTED_CANDIDATE_LIMIT must not be negative")
	}

	return &cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// RefreshTTL parses JWTRefreshTTL as a time.Duration. Returns 168h if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTRefreshTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

// VerificationTokenTTL parses VerificationTTL. Returns 24h if unset or invalid.
func (c *Config) VerificationTokenTTL() time.Duration {
	d, err := time.ParseDuration(c.VerificationTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// ResetTokenTTL parses ResetTTL. Returns 1h if unset or invalid.
func (c *Config) ResetTokenTTL() time.Duration {
	d, err := time.ParseDuration(c.ResetTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// CORSOrigins returns allowed origins from the comma-separated config.
func (c *Config) CORSOrigins() []string {
	if c == nil || c.CORSAllowedOrigins == "" {
		return nil
	}
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
