// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/kvdl/kvdl-site/internal/model"
	"github.com/kvdl/kvdl-site/internal/store"
)

// SettingsHandler serves the site settings singleton.
type SettingsHandler struct {
	settings *store.Settings
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(s *store.Store) *SettingsHandler {
	return &SettingsHandler{settings: s.Settings}
}

// Get handles GET /api/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.settings.Get())
}

// Update handles PUT and PATCH /api/settings. The settings id never changes.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput[model.SettingsInput](w, r)
	if !ok {
		return
	}

	s := h.settings.Update(in)
	slog.InfoContext(r.Context(), "settings updated")
	WriteJSON(w, http.StatusOK, s)
}

// Site handles GET /api/site, the public company information.
func (h *SettingsHandler) Site(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.settings.Get().Public())
}
