// Package handler exposes the usage counters over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"talent-screen/backend/internal/server/middleware"
	"talent-screen/backend/internal/server/respond"
	"talent-screen/backend/internal/usage"
	userdomain "talent-screen/backend/internal/user/domain"
)

// UsageService is the service surface the handler needs. Implemented by
// *usage.Service.
type UsageService interface {
	CheckAndIncrement(ctx context.Context, userID string, counter userdomain.Counter) (int, error)
	Stats(ctx context.Context, userID string) (*userdomain.Usage, error)
}

// UsageHandler serves the /api/files endpoints.
type UsageHandler struct {
	svc UsageService
}

// NewUsageHandler returns a UsageHandler.
func NewUsageHandler(svc UsageService) *UsageHandler {
	return &UsageHandler{svc: svc}
}

// Register wires the usage routes onto mux behind requireAuth.
func (h *UsageHandler) Register(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.Handle("POST /api/files/count", requireAuth(http.HandlerFunc(h.handleCount)))
	mux.Handle("GET /api/files/stats", requireAuth(http.HandlerFunc(h.handleStats)))
}

type countRequest struct {
	// Counter defaults to files_uploaded when omitted.
	Counter string `json:"counter"`
}

type usageResponse struct {
	FilesUploaded     int `json:"files_uploaded"`
	BatchAnalysis     int `json:"batch_analysis"`
	CompareResumes    int `json:"compare_resumes"`
	SelectedCandidate int `json:"selected_candidate"`
}

func toUsageResponse(u *userdomain.Usage) *usageResponse {
	if u == nil {
		return nil
	}
	return &usageResponse{
		FilesUploaded:     u.FilesUploaded,
		BatchAnalysis:     u.BatchAnalysis,
		CompareResumes:    u.CompareResumes,
		SelectedCandidate: u.SelectedCandidate,
	}
}

func (h *UsageHandler) handleCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}
	var req countRequest
	if r.Body != nil {
		// An empty body means the default counter.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	counter := userdomain.CounterFilesUploaded
	if req.Counter != "" {
		counter = userdomain.Counter(req.Counter)
	}
	if _, err := h.svc.CheckAndIncrement(r.Context(), userID, counter); err != nil {
		h.writeUsageError(w, err)
		return
	}
	stats, err := h.svc.Stats(r.Context(), userID)
	if err != nil {
		h.writeUsageError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, "file count updated", toUsageResponse(stats))
}

func (h *UsageHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}
	stats, err := h.svc.Stats(r.Context(), userID)
	if err != nil {
		h.writeUsageError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, "usage stats", toUsageResponse(stats))
}

func (h *UsageHandler) writeUsageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usage.ErrLimitExceeded):
		respond.Fail(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, usage.ErrUnknownCounter):
		respond.Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usage.ErrUserNotFound):
		respond.Fail(w, http.StatusNotFound, err.Error())
	default:
		respond.Fail(w, http.StatusInternalServerError, "internal server error")
	}
}
