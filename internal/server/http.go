// Package server wires handlers, middleware, and lifecycle for the HTTP API.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	authhandler "talent-screen/backend/internal/auth/handler"
	healthhandler "talent-screen/backend/internal/health/handler"
	"talent-screen/backend/internal/security"
	"talent-screen/backend/internal/server/middleware"
	"talent-screen/backend/internal/server/respond"
	"talent-screen/backend/internal/telemetry"
	usagehandler "talent-screen/backend/internal/usage/handler"
)

// Deps holds the dependencies for the HTTP router.
type Deps struct {
	// Auth serves the /api/auth endpoints.
	Auth *authhandler.AuthHandler
	// Usage serves the /api/files endpoints.
	Usage *usagehandler.UsageHandler
	// Tokens validates access tokens for protected routes.
	Tokens *security.TokenProvider
	// HealthPinger is used by /healthz for readiness (e.g. *sql.DB). May be nil.
	HealthPinger healthhandler.Pinger
	// Logger is the request logger. May be nil; slog.Default() is used.
	Logger *slog.Logger
	// Emitter receives per-request telemetry events. May be nil.
	Emitter telemetry.EventEmitter
	// Meter records request metrics. May be nil.
	Meter metric.Meter
	// Tracer starts per-request server spans. May be nil.
	Tracer trace.Tracer
	// CORSOrigins is the allow-list for cross-origin requests.
	CORSOrigins []string
}

// NewHandler builds the full HTTP handler: routes plus the middleware chain
// (CORS, logging/recovery, tracing, metrics, telemetry events).
func NewHandler(deps Deps) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.Auth(deps.Tokens)
	if deps.Auth != nil {
		deps.Auth.Register(mux, requireAuth)
	}
	if deps.Usage != nil {
		deps.Usage.Register(mux, requireAuth)
	}
	healthhandler.NewServer(deps.HealthPinger).Register(mux)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respond.Fail(w, http.StatusNotFound, "not found")
	})

	var h http.Handler = mux
	h = middleware.Events(deps.Emitter, map[string]bool{"/healthz": true})(h)
	h = middleware.Metrics(deps.Meter)(h)
	h = middleware.Tracing(deps.Tracer)(h)
	h = middleware.Logging(deps.Logger)(h)
	h = middleware.CORS(deps.CORSOrigins)(h)
	return h
}

// Server wraps http.Server with sane timeouts and graceful shutdown.
type Server struct {
	srv *http.Server
}

// New returns a Server listening on addr with the given handler.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// ListenAndServe blocks serving requests until Shutdown or a listener error.
// Returns http.ErrServerClosed after a clean shutdown.
func (s *Server) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
