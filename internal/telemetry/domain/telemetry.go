package domain

import "time"

// Event is a telemetry event recorded for an HTTP request or auth flow.
type Event struct {
	UserID    string // empty for unauthenticated requests
	EventType string // e.g. "http_request", "login_success"
	Source    string // e.g. "http_middleware"
	IP        string
	Metadata  []byte // JSON
	CreatedAt time.Time
}
