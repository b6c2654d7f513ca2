package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/auth-service/internal/apperror"
	"github.com/sakif/auth-service/internal/auth"
	"github.com/sakif/auth-service/internal/model"
	"github.com/sakif/auth-service/internal/service"
)

// AuthHandler exposes the authentication endpoints.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → create an account (no session issued)
//   - HandleLogin    → verify credentials, set the session cookie
//   - HandleMe       → return the identity claim from the validated token
//   - HandleLogout   → clear the session cookie
//
// All business rules live in AuthService; this layer only decodes JSON,
// maps errors to status codes, and manages the cookie.
type AuthHandler struct {
	service       *service.AuthService
	secureCookies bool
	logger        *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
//
// secureCookies should be true in production deployments: it marks the
// session cookie Secure and SameSite=None (required for a credentialed
// cross-site frontend over HTTPS). In development it stays false, so the
// cookie works over plain HTTP with SameSite=Lax.
func NewAuthHandler(svc *service.AuthService, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:       svc,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// sessionCookie builds the session cookie with the given value and MaxAge.
//
// Setting and clearing MUST go through this one function: browsers only
// clear a cookie when the clearing Set-Cookie matches the original
// attributes (name, path, Secure, SameSite), so the logout handler reuses
// this with maxAge=-1 rather than building its own cookie.
func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.secureCookies {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     auth.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: sameSite,
	}
}

// HandleRegister creates a new user account.
//
// HTTP: POST /api/auth/register
//
// 201 on success with the sanitized user (id, name, email, createdAt —
// never the password hash). 400 on missing fields, 409 on duplicate
// email. No session cookie is set: registering does not log the user in.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apperror.ValidationFailed("body", "Invalid request body"))
		return
	}

	user, err := h.service.Register(r.Context(), in)
	if err != nil {
		h.logError("register", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    user.Public(),
	})
}

// HandleLogin verifies credentials and starts a session.
//
// HTTP: POST /api/auth/login
//
// On success the session token is set as an HttpOnly cookie whose MaxAge
// mirrors the token TTL (1 day, or 7 with remember). The response body
// also carries the sanitized user, but the cookie is the actual
// credential — the body is advisory.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apperror.ValidationFailed("body", "Invalid request body"))
		return
	}

	result, err := h.service.Login(r.Context(), in)
	if err != nil {
		h.logError("login", err)
		writeError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(result.Token, int(result.TTL.Seconds())))

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    result.User.Identity(),
	})
}

// HandleMe returns the current session's identity.
//
// HTTP: GET /api/auth/me
// Auth: Required (auth.RequireAuth validates the token and puts the
// identity claim in the request context)
//
// The response reflects the claims exactly as signed at login time — the
// store is not consulted, so a profile edited out-of-band shows the old
// values until the next login. That staleness is part of the contract.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't 500 if miswired.
		writeError(w, apperror.Unauthorized("Not authenticated"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": model.PublicUser{ID: id.ID, Name: id.Name, Email: id.Email},
	})
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /api/auth/logout
//
// No token verification: logout is idempotent and succeeds whether or not
// a session was active. The clearing cookie mirrors the attributes used
// at login — a mismatched path or SameSite would leave the old cookie in
// place in most browsers.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// logError records server-side failures with full detail. Client-caused
// errors (validation, conflict, bad credentials) are expected traffic and
// logged at debug only.
func (h *AuthHandler) logError(op string, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		h.logger.Debug(op+" rejected", slog.String("reason", appErr.Message))
		return
	}
	h.logger.Error(op+" failed", slog.String("error", err.Error()))
}
