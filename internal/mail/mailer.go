// Package mail sends account emails (verification, password reset). Sending
// is best-effort: auth flows dispatch asynchronously and never fail because
// a mail could not be delivered.
package mail

import (
	"context"
	"log/slog"
	"time"
)

// sendTimeout bounds a single async delivery attempt.
const sendTimeout = 15 * time.Second

// Mailer sends account emails. Implementations must be safe for concurrent use.
type Mailer interface {
	SendVerification(ctx context.Context, toEmail, name, token string) error
	SendPasswordReset(ctx context.Context, toEmail, name, token string) error
}

// DeliveryStatus reports the outcome of an async send. Callers may log it or
// drop the channel; delivery never blocks the auth flow.
type DeliveryStatus struct {
	To  string
	Err error // nil on success
}

// SendAsync runs send in a goroutine with its own timeout so the caller is
// not blocked and request cancellation does not abort an in-flight send.
// The returned channel receives exactly one DeliveryStatus and is buffered,
// so it may be ignored.
func SendAsync(logger *slog.Logger, toEmail string, send func(ctx context.Context) error) <-chan DeliveryStatus {
	done := make(chan DeliveryStatus, 1)
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		err := send(sendCtx)
		if err != nil && logger != nil {
			logger.Warn("mail delivery failed", slog.String("to", toEmail), slog.String("error", err.Error()))
		}
		done <- DeliveryStatus{To: toEmail, Err: err}
	}()
	return done
}
