// Package handler serves readiness/liveness for Kubernetes, load balancers, and CI.
package handler

import (
	"context"
	"net/http"
	"time"

	"talent-screen/backend/internal/server/respond"
)

// Pinger reports backend reachability (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server serves GET /healthz.
type Server struct {
	pinger Pinger
}

// NewServer returns a health server. pinger may be nil; the DB check is then skipped.
func NewServer(pinger Pinger) *Server {
	return &Server{pinger: pinger}
}

// Register wires the health route onto mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealthz)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.pinger.PingContext(ctx); err != nil {
			respond.Fail(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	respond.OK(w, http.StatusOK, "ok", nil)
}
