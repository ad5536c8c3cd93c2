// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kvdl/kvdl-site/internal/scheduler"
)

// JobsHandler exposes the maintenance scheduler to admins.
type JobsHandler struct {
	jobs JobRunner
}

// NewJobsHandler creates a new JobsHandler.
func NewJobsHandler(jobs JobRunner) *JobsHandler {
	return &JobsHandler{jobs: jobs}
}

// List handles GET /api/jobs.
func (h *JobsHandler) List(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.jobs.Jobs())
}

// Run handles POST /api/jobs/{name}/run.
func (h *JobsHandler) Run(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	err := h.jobs.Trigger(r.Context(), name)
	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		WriteNotFound(w, "Job not found")
		return
	case err != nil:
		slog.WarnContext(r.Context(), "manual job run failed", "job", name, "error", err)
		WriteError(w, http.StatusInternalServerError, "job_failed", "Job failed: "+err.Error(), nil)
		return
	}

	slog.InfoContext(r.Context(), "job triggered manually", "job", name)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Job completed"})
}
