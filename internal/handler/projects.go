// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kvdl/kvdl-site/internal/model"
	"github.com/kvdl/kvdl-site/internal/store"
)

// ProjectsHandler serves construction projects.
type ProjectsHandler struct {
	projects *store.Projects
}

// NewProjectsHandler creates a new ProjectsHandler.
func NewProjectsHandler(s *store.Store) *ProjectsHandler {
	return &ProjectsHandler{projects: s.Projects}
}

// List handles GET /api/projects.
// Query parameters: q (search in title and description), status, location.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := model.ProjectFilter{
		Query:    strings.TrimSpace(query.Get("q")),
		Status:   query.Get("status"),
		Location: query.Get("location"),
	}

	if filter.IsZero() {
		WriteJSON(w, http.StatusOK, h.projects.List())
		return
	}
	WriteJSON(w, http.StatusOK, h.projects.Filter(filter))
}

// Locations handles GET /api/projects/locations.
func (h *ProjectsHandler) Locations(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.projects.Locations())
}

// Get handles GET /api/projects/{id}.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.projects.Get(chi.URLParam(r, "id"))
	if !ok {
		WriteNotFound(w, "Project not found")
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

// Create handles POST /api/projects.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput[model.ProjectInput](w, r)
	if !ok {
		return
	}

	p := h.projects.Create(in)
	slog.InfoContext(r.Context(), "project created", "project_id", p.ID, "title", p.Title)
	WriteCreated(w, p)
}

// Update handles PUT and PATCH /api/projects/{id}. Both replace every
// mutable field.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput[model.ProjectInput](w, r)
	if !ok {
		return
	}

	p, found := h.projects.Update(chi.URLParam(r, "id"), in)
	if !found {
		WriteNotFound(w, "Project not found")
		return
	}
	slog.InfoContext(r.Context(), "project updated", "project_id", p.ID)
	WriteJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/projects/{id}.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.projects.Delete(id) {
		WriteNotFound(w, "Project not found")
		return
	}
	slog.InfoContext(r.Context(), "project deleted", "project_id", id)
	WriteNoContent(w)
}
