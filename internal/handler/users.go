// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kvdl/kvdl-site/internal/middleware"
	"github.com/kvdl/kvdl-site/internal/model"
	"github.com/kvdl/kvdl-site/internal/store"
)

// UsersHandler manages admin accounts.
type UsersHandler struct {
	users *store.Users
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(s *store.Store) *UsersHandler {
	return &UsersHandler{users: s.Users}
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.users.List())
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput[model.UserInput](w, r)
	if !ok {
		return
	}

	user, err := h.users.Create(in)
	switch {
	case errors.Is(err, store.ErrDuplicateUsername):
		WriteConflict(w, "User already exists", map[string]string{"username": "Username already exists"})
		return
	case errors.Is(err, store.ErrDuplicateEmail):
		WriteConflict(w, "User already exists", map[string]string{"email": "Email already exists"})
		return
	case err != nil:
		logAndInternalError(w, r, "failed to create user", err)
		return
	}

	attrs := []any{"user_id", user.ID, "username", user.Username}
	if creator, ok := middleware.GetPrincipal(r); ok {
		attrs = append(attrs, "created_by", creator.ID)
	}
	slog.InfoContext(r.Context(), "user created", attrs...)
	WriteCreated(w, user.Safe())
}
