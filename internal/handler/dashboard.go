// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/samber/lo"

	"github.com/kvdl/kvdl-site/internal/model"
	"github.com/kvdl/kvdl-site/internal/store"
)

// Number of recent items shown on the dashboard.
const (
	recentProjects = 5
	recentImages   = 6
	recentContacts = 5
)

// DashboardHandler summarizes the store for the admin landing page.
type DashboardHandler struct {
	store *store.Store
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(s *store.Store) *DashboardHandler {
	return &DashboardHandler{store: s}
}

// DashboardStats is the GET /api/dashboard response.
type DashboardStats struct {
	TotalProjects    int                       `json:"totalProjects"`
	ActiveProjects   int                       `json:"activeProjects"`
	ProjectsByStatus map[string]int            `json:"projectsByStatus"`
	GalleryImages    int                       `json:"galleryImages"`
	Pages            int                       `json:"pages"`
	PublishedPages   int                       `json:"publishedPages"`
	Contacts         int                       `json:"contacts"`
	Users            int                       `json:"users"`
	RecentProjects   []model.Project           `json:"recentProjects"`
	RecentImages     []model.GalleryImage      `json:"recentImages"`
	RecentContacts   []model.ContactSubmission `json:"recentContacts"`
}

// Stats handles GET /api/dashboard.
func (h *DashboardHandler) Stats(w http.ResponseWriter, _ *http.Request) {
	s := h.store
	byStatus := s.Projects.CountByStatus()

	WriteJSON(w, http.StatusOK, DashboardStats{
		TotalProjects:    s.Projects.Count(),
		ActiveProjects:   byStatus[model.ProjectStatusInProgress],
		ProjectsByStatus: byStatus,
		GalleryImages:    s.Gallery.Count(),
		Pages:            s.Pages.Count(),
		PublishedPages:   len(s.Pages.Published()),
		Contacts:         s.Contacts.Count(),
		Users:            s.Users.Count(),
		RecentProjects:   lo.Slice(s.Projects.List(), 0, recentProjects),
		RecentImages:     lo.Slice(s.Gallery.List(), 0, recentImages),
		RecentContacts:   lo.Slice(s.Contacts.List(), 0, recentContacts),
	})
}
