// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kvdl/kvdl-site/internal/model"
	"github.com/kvdl/kvdl-site/internal/store"
)

// GalleryHandler serves gallery images.
type GalleryHandler struct {
	gallery *store.Gallery
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(s *store.Store) *GalleryHandler {
	return &GalleryHandler{gallery: s.Gallery}
}

// List handles GET /api/gallery, optionally narrowed by ?projectId=.
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	if projectID := r.URL.Query().Get("projectId"); projectID != "" {
		WriteJSON(w, http.StatusOK, h.gallery.ByProject(projectID))
		return
	}
	WriteJSON(w, http.StatusOK, h.gallery.List())
}

// Get handles GET /api/gallery/{id}.
func (h *GalleryHandler) Get(w http.ResponseWriter, r *http.Request) {
	img, ok := h.gallery.Get(chi.URLParam(r, "id"))
	if !ok {
		WriteNotFound(w, "Gallery image not found")
		return
	}
	WriteJSON(w, http.StatusOK, img)
}

// Create handles POST /api/gallery.
func (h *GalleryHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput[model.GalleryImageInput](w, r)
	if !ok {
		return
	}

	img := h.gallery.Create(in)
	slog.InfoContext(r.Context(), "gallery image created", "image_id", img.ID)
	WriteCreated(w, img)
}

// Update handles PUT and PATCH /api/gallery/{id}.
func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput[model.GalleryImageInput](w, r)
	if !ok {
		return
	}

	img, found := h.gallery.Update(chi.URLParam(r, "id"), in)
	if !found {
		WriteNotFound(w, "Gallery image not found")
		return
	}
	WriteJSON(w, http.StatusOK, img)
}

// Delete handles DELETE /api/gallery/{id}.
func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.gallery.Delete(id) {
		WriteNotFound(w, "Gallery image not found")
		return
	}
	slog.InfoContext(r.Context(), "gallery image deleted", "image_id", id)
	WriteNoContent(w)
}
