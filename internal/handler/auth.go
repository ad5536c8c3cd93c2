// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kvdl/kvdl-site/internal/auth"
	"github.com/kvdl/kvdl-site/internal/middleware"
	"github.com/kvdl/kvdl-site/internal/model"
	"github.com/kvdl/kvdl-site/internal/session"
)

// Authenticator verifies login credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (model.SafeUser, error)
}

// AuthHandler handles sign in, sign out and the current-user lookup.
type AuthHandler struct {
	authn   Authenticator
	gate    *session.Gate
	metrics *middleware.Metrics
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authn Authenticator, gate *session.Gate, metrics *middleware.Metrics) *AuthHandler {
	return &AuthHandler{authn: authn, gate: gate, metrics: metrics}
}

type userResponse struct {
	User *model.SafeUser `json:"user"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in model.LoginInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if errs := in.Validate(); !errs.Valid() {
		WriteBadRequest(w, "Username and password are required", errs)
		return
	}

	user, err := h.authn.Authenticate(r.Context(), in.Username, in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.metrics.RecordLogin("failure")
			WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password", nil)
			return
		}
		logAndInternalError(w, r, "login failed", err)
		return
	}

	// Regenerate session ID to prevent session fixation
	if err := h.gate.SignIn(r.Context(), user); err != nil {
		logAndInternalError(w, r, "session sign-in failed", err)
		return
	}

	h.metrics.RecordLogin("success")
	slog.InfoContext(r.Context(), "user logged in", "user_id", user.ID, "username", user.Username)
	WriteJSON(w, http.StatusOK, userResponse{User: &user})
}

// Logout handles POST /api/auth/logout. Signing out an anonymous session
// succeeds as well.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, signedIn := h.gate.Principal(r.Context())

	if err := h.gate.SignOut(r.Context()); err != nil {
		logAndInternalError(w, r, "session sign-out failed", err)
		return
	}

	if signedIn {
		slog.InfoContext(r.Context(), "user logged out", "user_id", user.ID)
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// CurrentUser handles GET /api/auth/user. Anonymous callers get
// {"user": null}.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	var resp userResponse
	if state := middleware.GetState(r); state.Authenticated {
		resp.User = &state.Principal
	}
	WriteJSON(w, http.StatusOK, resp)
}

// RevokeOtherSessions handles DELETE /api/auth/sessions. It signs the
// caller out on every other device and keeps the current session.
func (h *AuthHandler) RevokeOtherSessions(w http.ResponseWriter, r *http.Request) {
	n, err := h.gate.RevokeOthers(r.Context())
	if err != nil {
		logAndInternalError(w, r, "failed to revoke sessions", err)
		return
	}

	if user, ok := middleware.GetPrincipal(r); ok {
		slog.InfoContext(r.Context(), "other sessions revoked", "user_id", user.ID, "count", n)
	}
	WriteJSON(w, http.StatusOK, map[string]int{"revoked": n})
}
