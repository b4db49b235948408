package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
)

type contextKey struct{ name string }

var (
	userIDKey   = contextKey{"user_id"}
	identityKey = contextKey{"identity"}
	clientIPKey = contextKey{"client_ip"}
)

// identity is a mutable carrier shared between outer middleware and the
// per-route auth middleware. The mux hands the matched handler a derived
// request, so a context value set there never reaches the context the
// outer chain holds; writing through the carrier does.
type identity struct {
	mu     sync.Mutex
	userID string
}

func (id *identity) set(userID string) {
	id.mu.Lock()
	id.userID = userID
	id.mu.Unlock()
}

func (id *identity) get() string {
	id.mu.Lock()
	defer id.mu.Unlock()
	return id.userID
}

// WithIdentityCarrier returns a context holding an empty identity carrier.
// Outer middleware installs it before routing so the user id set by the
// auth middleware is visible once the handler returns.
func WithIdentityCarrier(ctx context.Context) context.Context {
	return context.WithValue(ctx, identityKey, &identity{})
}

// WithIdentity returns a context with the authenticated user's id set.
// Handlers read it back via GetUserID. An identity carrier already in ctx
// is updated as well.
func WithIdentity(ctx context.Context, userID string) context.Context {
	if id, ok := ctx.Value(identityKey).(*identity); ok {
		id.set(userID)
	}
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID returns the user_id from context and true if set; otherwise "", false.
func GetUserID(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(userIDKey).(string); ok && v != "" {
		return v, true
	}
	if id, ok := ctx.Value(identityKey).(*identity); ok {
		if v := id.get(); v != "" {
			return v, true
		}
	}
	return "", false
}

// WithClientIP returns a context carrying the request's client IP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIPFromContext returns the client IP stored by the server, or "unknown".
func ClientIPFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(clientIPKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// ClientIP resolves the client IP from proxy headers (X-Forwarded-For,
// X-Real-IP) or the connection's remote address, or "unknown".
func ClientIP(r *http.Request) string {
	if s := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); s != "" {
		if i := strings.Index(s, ","); i > 0 {
			s = strings.TrimSpace(s[:i])
		}
		if s != "" {
			return s
		}
	}
	if s := strings.TrimSpace(r.Header.Get("X-Real-IP")); s != "" {
		return s
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
