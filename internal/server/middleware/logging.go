package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"talent-screen/backend/internal/server/respond"
)

// Logging returns middleware that logs each request after it completes and
// recovers panics into a 500 envelope. If logger is nil, slog.Default() is
// used.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				if recovered := recover(); recovered != nil {
					logger.Error("panic recovered",
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.Any("panic", recovered),
						slog.String("stack", string(debug.Stack())),
					)
					respond.Fail(w, http.StatusInternalServerError, "internal server error")
					return
				}
				logger.Info("request",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int("status", rec.status),
					slog.Duration("duration", time.Since(start)),
					slog.String("ip", ClientIPFromContext(r.Context())),
				)
			}()
			next.ServeHTTP(rec, r.WithContext(WithClientIP(r.Context(), ClientIP(r))))
		})
	}
}
