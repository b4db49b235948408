package domain

import "time"

// AuditLog represents one auth audit event.
type AuditLog struct {
	ID        string
	UserID    string // empty for events with no resolved user (e.g. login_failure)
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
