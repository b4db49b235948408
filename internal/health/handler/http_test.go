package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) PingContext(ctx context.Context) error { return p.err }

func serve(t *testing.T, s *Server) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	s.Register(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	return rec
}

func TestHealthz_NoPinger(t *testing.T) {
	rec := serve(t, NewServer(nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHealthz_Healthy(t *testing.T) {
	rec := serve(t, NewServer(&fakePinger{}))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHealthz_DatabaseDown(t *testing.T) {
	rec := serve(t, NewServer(&fakePinger{err: errors.New("connection refused")}))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}
