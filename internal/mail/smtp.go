package mail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"
)

// SMTPConfig holds the SMTP connection settings and link base URL.
type SMTPConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	FromEmail string
	// BaseURL is the public app URL used to build verification/reset links
	// (e.g. https://app.example.com).
	BaseURL string
}

// SMTPMailer sends account emails over SMTP. When Host or FromEmail is
// empty the mailer is unconfigured and sends are skipped with a warning,
// which keeps local development working without an SMTP server.
type SMTPMailer struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// NewSMTPMailer returns a Mailer backed by the given SMTP settings.
func NewSMTPMailer(cfg SMTPConfig, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// SendVerification emails the verification link for token to toEmail.
func (m *SMTPMailer) SendVerification(ctx context.Context, toEmail, name, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", strings.TrimRight(m.cfg.BaseURL, "/"), token)
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Verify your email</h2>
    <p>Hi %s,</p>
    <p>Confirm your email address to finish setting up your account:</p>
    <p><a href="%s">Verify email</a></p>
    <p>The link expires in 24 hours. If you did not sign up, ignore this email.</p>
  </div>
</body>
</html>`, htmlEscape(name), link)
	return m.send(ctx, toEmail, "Verify your email address", body)
}

// SendPasswordReset emails the password-reset link for token to toEmail.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, toEmail, name, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(m.cfg.BaseURL, "/"), token)
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Reset your password</h2>
    <p>Hi %s,</p>
    <p>A password reset was requested for your account:</p>
    <p><a href="%s">Choose a new password</a></p>
    <p>The link expires in 1 hour. If you did not request this, ignore this email.</p>
  </div>
</body>
</html>`, htmlEscape(name), link)
	return m.send(ctx, toEmail, "Reset your password", body)
}

func (m *SMTPMailer) send(ctx context.Context, toEmail, subject, htmlBody string) error {
	if m.cfg.Host == "" || m.cfg.FromEmail == "" {
		if m.logger != nil {
			m.logger.Warn("smtp not configured, skipping mail", slog.String("to", toEmail), slog.String("subject", subject))
		}
		return nil
	}
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("mail: empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.FromEmail)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if m.logger != nil {
		m.logger.Info("mail sent", slog.String("to", toEmail), slog.String("subject", subject))
	}
	return nil
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;",
)

func htmlEscape(s string) string {
	return htmlEscaper.Replace(s)
}
