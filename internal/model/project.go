// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// Project statuses.
const (
	ProjectStatusPlanning   = "Planning"
	ProjectStatusInProgress = "In Progress"
	ProjectStatusCompleted  = "Completed"
)

// ProjectStatuses lists the accepted project statuses in display order.
var ProjectStatuses = []string{
	ProjectStatusPlanning,
	ProjectStatusInProgress,
	ProjectStatusCompleted,
}

// Project is a construction project shown on the public site.
type Project struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Location           string    `json:"location"`
	Status             string    `json:"status"`
	Progress           int       `json:"progress"`
	StartDate          string    `json:"startDate"`
	ExpectedCompletion string    `json:"expectedCompletion"`
	ImageURL           *string   `json:"imageUrl"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ProjectInput holds the mutable fields of a Project.
type ProjectInput struct {
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Location           string  `json:"location"`
	Status             string  `json:"status"`
	Progress           int     `json:"progress"`
	StartDate          string  `json:"startDate"`
	ExpectedCompletion string  `json:"expectedCompletion"`
	ImageURL           *string `json:"imageUrl"`
}

// Normalize trims surrounding whitespace from text fields.
func (in *ProjectInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.Status = strings.TrimSpace(in.Status)
	in.StartDate = strings.TrimSpace(in.StartDate)
	in.ExpectedCompletion = strings.TrimSpace(in.ExpectedCompletion)
	in.ImageURL = trimOptional(in.ImageURL)
}

// Validate checks the shape of a project payload.
func (in ProjectInput) Validate() FieldErrors {
	errs := FieldErrors{}
	errs.required("title", in.Title)
	errs.required("description", in.Description)
	errs.required("location", in.Location)
	if !lo.Contains(ProjectStatuses, in.Status) {
		errs.add("status", "Status must be one of: "+strings.Join(ProjectStatuses, ", "))
	}
	if in.Progress < 0 || in.Progress > 100 {
		errs.add("progress", "Progress must be between 0 and 100")
	}
	errs.required("startDate", in.StartDate)
	errs.required("expectedCompletion", in.ExpectedCompletion)
	return errs.orNil()
}

// ProjectFilter narrows a project listing. Empty fields match everything.
type ProjectFilter struct {
	Query    string
	Status   string
	Location string
}

// Matches reports whether p satisfies every non-empty criterion.
// Query matching is a case-insensitive substring match on title and description.
func (f ProjectFilter) Matches(p Project) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Location != "" && p.Location != f.Location {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		return strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q)
	}
	return true
}

// IsZero reports whether the filter has no criteria.
func (f ProjectFilter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" && f.Status == "" && f.Location == ""
}
