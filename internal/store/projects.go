// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/kvdl/kvdl-site/internal/model"
)

// Projects holds construction projects.
type Projects struct {
	opts options
	c    collection[model.Project]
}

// Create stores a new project built from a validated input.
func (s *Projects) Create(in model.ProjectInput) model.Project {
	now := s.opts.now()
	p := model.Project{
		ID:        s.opts.newID(),
		CreatedAt: now,
	}
	applyProject(&p, in, now)
	s.c.insert(p.ID, p, now, nil)
	return p
}

// List returns all projects, newest first.
func (s *Projects) List() []model.Project {
	return s.c.list()
}

// Filter returns the projects matching f, newest first.
func (s *Projects) Filter(f model.ProjectFilter) []model.Project {
	if f.IsZero() {
		return s.c.list()
	}
	return s.c.filter(f.Matches)
}

// Get returns the project with the given id.
func (s *Projects) Get(id string) (model.Project, bool) {
	return s.c.get(id)
}

// Update replaces every mutable field of a project.
func (s *Projects) Update(id string, in model.ProjectInput) (model.Project, bool) {
	now := s.opts.now()
	p, found, _ := s.c.update(id, func(p model.Project) model.Project {
		applyProject(&p, in, now)
		return p
	}, nil)
	return p, found
}

// Delete removes a project. Gallery images keep their project reference.
func (s *Projects) Delete(id string) bool {
	return s.c.delete(id)
}

// Locations returns the distinct project locations in alphabetical order.
func (s *Projects) Locations() []string {
	locations := lo.Uniq(lo.Map(s.c.list(), func(p model.Project, _ int) string {
		return p.Location
	}))
	slices.Sort(locations)
	return locations
}

// CountByStatus returns the number of projects per status. Every known
// status is present in the result.
func (s *Projects) CountByStatus() map[string]int {
	counts := make(map[string]int, len(model.ProjectStatuses))
	for _, status := range model.ProjectStatuses {
		counts[status] = 0
	}
	for status, n := range lo.CountValuesBy(s.c.list(), func(p model.Project) string { return p.Status }) {
		counts[status] = n
	}
	return counts
}

// Count returns the number of projects.
func (s *Projects) Count() int {
	return s.c.len()
}

// applyProject replaces all fields except id and createdAt.
func applyProject(p *model.Project, in model.ProjectInput, now time.Time) {
	p.Title = in.Title
	p.Description = in.Description
	p.Location = in.Location
	p.Status = in.Status
	p.Progress = in.Progress
	p.StartDate = in.StartDate
	p.ExpectedCompletion = in.ExpectedCompletion
	p.ImageURL = in.ImageURL
	p.UpdatedAt = now
}
