// Package handler exposes the auth service over HTTP with JSON envelopes
// and the refresh-token cookie contract.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"talent-screen/backend/internal/auth/service"
	"talent-screen/backend/internal/server/middleware"
	"talent-screen/backend/internal/server/respond"
	userdomain "talent-screen/backend/internal/user/domain"
)

// refreshCookieName is the HttpOnly cookie carrying the refresh token.
const refreshCookieName = "refresh_token"

// refreshCookiePath scopes the cookie to the auth endpoints so it does not
// ride along on every API call.
const refreshCookiePath = "/api/auth"

// AuthService is the service surface the handler needs. Implemented by
// *service.AuthService.
type AuthService interface {
	Register(ctx context.Context, name, email, password, company string) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*service.AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword, confirmPassword string) error
	VerifyEmail(ctx context.Context, token string) error
	Profile(ctx context.Context, userID string) (*userdomain.User, error)
}

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	svc           AuthService
	secureCookies bool
	refreshTTL    time.Duration
}

// NewAuthHandler returns an AuthHandler. secureCookies should be true in
// production so the refresh cookie is HTTPS-only.
func NewAuthHandler(svc AuthService, secureCookies bool, refreshTTL time.Duration) *AuthHandler {
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthHandler{svc: svc, secureCookies: secureCookies, refreshTTL: refreshTTL}
}

// Register wires the auth routes onto mux. requireAuth guards the endpoints
// that need a valid access token.
func (h *AuthHandler) Register(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/auth/refresh", h.handleRefresh)
	mux.HandleFunc("POST /api/auth/logout", h.handleLogout)
	mux.HandleFunc("POST /api/auth/reset-password", h.handleResetPassword)
	mux.HandleFunc("POST /api/auth/verify-email", h.handleVerifyEmail)
	mux.Handle("POST /api/auth/change-password", requireAuth(http.HandlerFunc(h.handleChangePassword)))
	mux.Handle("GET /api/auth/profile", requireAuth(http.HandlerFunc(h.handleProfile)))
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Company  string `json:"company"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

// userResponse is the user shape returned to clients. The password hash and
// token hashes never leave the service.
type userResponse struct {
	ID            string        `json:"id"`
	Email         string        `json:"email"`
	Name          string        `json:"name"`
	Company       string        `json:"company,omitempty"`
	EmailVerified bool          `json:"email_verified"`
	Usage         usageCounters `json:"usage"`
	CreatedAt     time.Time     `json:"created_at"`
}

// usageCounters mirrors the usage endpoints' counter shape so the profile
// carries the same field names.
type usageCounters struct {
	FilesUploaded     int `json:"files_uploaded"`
	BatchAnalysis     int `json:"batch_analysis"`
	CompareResumes    int `json:"compare_resumes"`
	SelectedCandidate int `json:"selected_candidate"`
}

type authResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        *userResponse `json:"user"`
}

func toUserResponse(u *userdomain.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Company:       u.Company,
		EmailVerified: u.EmailVerified,
		Usage: usageCounters{
			FilesUploaded:     u.Usage.FilesUploaded,
			BatchAnalysis:     u.Usage.BatchAnalysis,
			CompareResumes:    u.Usage.CompareResumes,
			SelectedCandidate: u.Usage.SelectedCandidate,
		},
		CreatedAt: u.CreatedAt,
	}
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password, req.Company)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	h.setRefreshCookie(w, result.RefreshToken)
	respond.OK(w, http.StatusCreated, "registration successful", h.toAuthResponse(result))
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	h.setRefreshCookie(w, result.RefreshToken)
	respond.OK(w, http.StatusOK, "login successful", h.toAuthResponse(result))
}

func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token := h.refreshTokenFrom(r)
	result, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		h.clearRefreshCookie(w)
		h.writeAuthError(w, err)
		return
	}
	h.setRefreshCookie(w, result.RefreshToken)
	respond.OK(w, http.StatusOK, "token refreshed", h.toAuthResponse(result))
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := h.refreshTokenFrom(r)
	if err := h.svc.Logout(r.Context(), token); err != nil {
		respond.Fail(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.clearRefreshCookie(w)
	respond.OK(w, http.StatusOK, "logged out", nil)
}

// handleResetPassword serves both halves of the reset flow on one endpoint:
// a body with an email requests a reset mail, a body with a token and new
// password completes it.
func (h *AuthHandler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	switch {
	case req.Token != "":
		if err := h.svc.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
			h.writeAuthError(w, err)
			return
		}
		respond.OK(w, http.StatusOK, "password reset", nil)
	case req.Email != "":
		if err := h.svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
			respond.Fail(w, http.StatusInternalServerError, "internal server error")
			return
		}
		// Same response whether or not the account exists.
		respond.OK(w, http.StatusOK, "if the email is registered, a reset link has been sent", nil)
	default:
		respond.Fail(w, http.StatusBadRequest, "email or token is required")
	}
}

func (h *AuthHandler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}
	var req changePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		h.writeAuthError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, "password changed", nil)
}

func (h *AuthHandler) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Token == "" {
		req.Token = r.URL.Query().Get("token")
	}
	if err := h.svc.VerifyEmail(r.Context(), req.Token); err != nil {
		h.writeAuthError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, "email verified", nil)
}

func (h *AuthHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}
	user, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, "profile", toUserResponse(user))
}

func (h *AuthHandler) toAuthResponse(result *service.AuthResult) *authResponse {
	return &authResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   result.AccessExpiresAt,
		User:        toUserResponse(result.User),
	}
}

// refreshTokenFrom reads the refresh token from the cookie, falling back to
// the JSON body for non-browser clients.
func (h *AuthHandler) refreshTokenFrom(r *http.Request) string {
	if c, err := r.Cookie(refreshCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

// writeAuthError maps service errors to HTTP statuses.
func (h *AuthHandler) writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		respond.Fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respond.Fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrRefreshTokenExpired):
		respond.Fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidOrExpiredToken),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidEmail):
		respond.Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		respond.Fail(w, http.StatusNotFound, err.Error())
	default:
		respond.Fail(w, http.StatusInternalServerError, "internal server error")
	}
}

// decode parses the JSON body into dst, writing a 400 envelope on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
