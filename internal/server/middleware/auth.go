package middleware

import (
	"net/http"
	"strings"

	"talent-screen/backend/internal/security"
	"talent-screen/backend/internal/server/respond"
)

const bearerPrefix = "bearer "

// Auth returns middleware that validates the Bearer (access) token from the
// Authorization header and sets user_id in the request context. Requests
// without a valid token get a 401 envelope.
func Auth(tokens *security.TokenProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				respond.Fail(w, http.StatusUnauthorized, "missing or invalid authorization")
				return
			}
			userID, err := tokens.ValidateAccess(token)
			if err != nil {
				respond.Fail(w, http.StatusUnauthorized, "missing or invalid authorization")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), userID)))
		})
	}
}

// extractBearer returns the Bearer token from the Authorization header, or
// "" if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
