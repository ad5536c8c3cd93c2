// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kvdl/kvdl-site/internal/markup"
	"github.com/kvdl/kvdl-site/internal/model"
	"github.com/kvdl/kvdl-site/internal/store"
	"github.com/kvdl/kvdl-site/internal/util"
)

// PagesHandler serves CMS pages: the admin CRUD under /api/cms and the
// public, published view under /api/pages.
type PagesHandler struct {
	pages *store.Pages
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(s *store.Store) *PagesHandler {
	return &PagesHandler{pages: s.Pages}
}

// PublicPage is a published page together with its rendered content.
type PublicPage struct {
	model.Page
	HTML string `json:"html"`
}

var errSlugTaken = model.FieldErrors{"slug": "Slug already exists"}

// List handles GET /api/cms.
func (h *PagesHandler) List(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.pages.List())
}

// Get handles GET /api/cms/{id}.
func (h *PagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.pages.Get(chi.URLParam(r, "id"))
	if !ok {
		WriteNotFound(w, "Page not found")
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

// Create handles POST /api/cms.
func (h *PagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput[model.PageInput](w, r)
	if !ok {
		return
	}

	p, err := h.pages.Create(in)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateSlug) {
			WriteValidationError(w, errSlugTaken)
			return
		}
		logAndInternalError(w, r, "failed to create page", err)
		return
	}

	slog.InfoContext(r.Context(), "page created", "page_id", p.ID, "slug", p.Slug)
	WriteCreated(w, p)
}

// Update handles PUT and PATCH /api/cms/{id}.
func (h *PagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput[model.PageInput](w, r)
	if !ok {
		return
	}

	p, found, err := h.pages.Update(chi.URLParam(r, "id"), in)
	switch {
	case !found:
		WriteNotFound(w, "Page not found")
	case errors.Is(err, store.ErrDuplicateSlug):
		WriteValidationError(w, errSlugTaken)
	case err != nil:
		logAndInternalError(w, r, "failed to update page", err)
	default:
		slog.InfoContext(r.Context(), "page updated", "page_id", p.ID)
		WriteJSON(w, http.StatusOK, p)
	}
}

// SlugCheck handles GET /api/cms/slug-check?slug=...&excludeId=...
// It lets the editor flag a taken or malformed slug before saving.
func (h *PagesHandler) SlugCheck(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	slug := strings.TrimSpace(query.Get("slug"))
	if slug == "" {
		WriteBadRequest(w, "Slug is required", map[string]string{"slug": "Slug is required"})
		return
	}

	resp := slugCheckResponse{Slug: slug, Valid: util.IsValidSlug(slug)}
	resp.Available = resp.Valid && !h.pages.SlugTaken(slug, query.Get("excludeId"))
	WriteJSON(w, http.StatusOK, resp)
}

type slugCheckResponse struct {
	Slug      string `json:"slug"`
	Valid     bool   `json:"valid"`
	Available bool   `json:"available"`
}

// Delete handles DELETE /api/cms/{id}.
func (h *PagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.pages.Delete(id) {
		WriteNotFound(w, "Page not found")
		return
	}
	slog.InfoContext(r.Context(), "page deleted", "page_id", id)
	WriteNoContent(w)
}

// ListPublished handles GET /api/pages.
func (h *PagesHandler) ListPublished(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.pages.Published())
}

// Show handles GET /api/pages/{slug}. Drafts are reported as not found.
func (h *PagesHandler) Show(w http.ResponseWriter, r *http.Request) {
	p, ok := h.pages.BySlug(chi.URLParam(r, "slug"))
	if !ok || !p.Published {
		WriteNotFound(w, "Page not found")
		return
	}

	html, err := markup.Render(p.Content)
	if err != nil {
		logAndInternalError(w, r, "failed to render page", err)
		return
	}
	WriteJSON(w, http.StatusOK, PublicPage{Page: p, HTML: html})
}
