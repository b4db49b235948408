package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"talent-screen/backend/internal/telemetry"
	"talent-screen/backend/internal/telemetry/domain"
)

// httpRequestMetadata is the JSON shape stored in Event.Metadata for http_request events.
type httpRequestMetadata struct {
	Method     string `json:"method"`
	Route      string `json:"route"`
	StatusCode int    `json:"status_code"`
	DurationMs int64  `json:"duration_ms"`
}

// Events returns middleware that emits a telemetry event after each request.
// Best-effort and asynchronous; a nil emitter makes this a pass-through.
// skipRoutes is the set of request paths to not emit (e.g. the health check).
func Events(emitter telemetry.EventEmitter, skipRoutes map[string]bool) func(http.Handler) http.Handler {
	if emitter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			// The carrier makes the id set by the per-route auth
			// middleware readable out here after the handler returns.
			r = r.WithContext(WithIdentityCarrier(r.Context()))
			next.ServeHTTP(rec, r)

			if skipRoutes[r.URL.Path] {
				return
			}
			meta := httpRequestMetadata{
				Method:     r.Method,
				Route:      r.URL.Path,
				StatusCode: rec.status,
				DurationMs: time.Since(start).Milliseconds(),
			}
			metaJSON, _ := json.Marshal(meta)
			userID, _ := GetUserID(r.Context())
			telemetry.EmitAsync(emitter, r.Context(), &domain.Event{
				UserID:    userID,
				EventType: "http_request",
				Source:    "http_middleware",
				IP:        ClientIPFromContext(r.Context()),
				Metadata:  metaJSON,
				CreatedAt: time.Now().UTC(),
			})
		})
	}
}
