// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/kvdl/kvdl-site/internal/middleware"
	"github.com/kvdl/kvdl-site/internal/model"
	"github.com/kvdl/kvdl-site/internal/store"
)

// ContactHandler accepts and lists contact form submissions.
type ContactHandler struct {
	contacts *store.Contacts
	metrics  *middleware.Metrics
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(s *store.Store, metrics *middleware.Metrics) *ContactHandler {
	return &ContactHandler{contacts: s.Contacts, metrics: metrics}
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput[model.ContactSubmissionInput](w, r)
	if !ok {
		return
	}

	sub := h.contacts.Create(in)
	h.metrics.RecordContact()
	slog.InfoContext(r.Context(), "contact submission received", "submission_id", sub.ID)
	WriteCreated(w, sub)
}

// List handles GET /api/contact.
func (h *ContactHandler) List(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.contacts.List())
}
