// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"errors"
	"time"

	"github.com/kvdl/kvdl-site/internal/model"
)

// ErrDuplicateSlug is returned when another page already uses a slug.
var ErrDuplicateSlug = errors.New("slug already in use")

// Pages holds CMS pages.
type Pages struct {
	opts options
	c    collection[model.Page]
}

func slugConflict(slug string) conflictFunc[model.Page] {
	return func(_ string, existing model.Page) bool {
		return existing.Slug == slug
	}
}

// Create stores a new page. It fails with ErrDuplicateSlug if the slug is
// taken.
func (s *Pages) Create(in model.PageInput) (model.Page, error) {
	now := s.opts.now()
	p := model.Page{
		ID:        s.opts.newID(),
		CreatedAt: now,
	}
	applyPage(&p, in, now)
	if !s.c.insert(p.ID, p, now, slugConflict(p.Slug)) {
		return model.Page{}, ErrDuplicateSlug
	}
	return p, nil
}

// List returns all pages, newest first.
func (s *Pages) List() []model.Page {
	return s.c.list()
}

// Published returns the published pages, newest first.
func (s *Pages) Published() []model.Page {
	return s.c.filter(func(p model.Page) bool { return p.Published })
}

// Get returns the page with the given id.
func (s *Pages) Get(id string) (model.Page, bool) {
	return s.c.get(id)
}

// BySlug returns the page with the given slug, published or not.
func (s *Pages) BySlug(slug string) (model.Page, bool) {
	return s.c.find(func(p model.Page) bool { return p.Slug == slug })
}

// SlugTaken reports whether a page other than exceptID uses slug.
func (s *Pages) SlugTaken(slug, exceptID string) bool {
	_, taken := s.c.find(func(p model.Page) bool {
		return p.Slug == slug && p.ID != exceptID
	})
	return taken
}

// Update replaces every mutable field of a page. found is false when no
// page has the id; ErrDuplicateSlug is returned when another page owns the
// new slug.
func (s *Pages) Update(id string, in model.PageInput) (page model.Page, found bool, err error) {
	now := s.opts.now()
	p, found, ok := s.c.update(id, func(p model.Page) model.Page {
		applyPage(&p, in, now)
		return p
	}, slugConflict(in.Slug))
	if !found {
		return model.Page{}, false, nil
	}
	if !ok {
		return model.Page{}, true, ErrDuplicateSlug
	}
	return p, true, nil
}

// Delete removes a page.
func (s *Pages) Delete(id string) bool {
	return s.c.delete(id)
}

// Count returns the number of pages.
func (s *Pages) Count() int {
	return s.c.len()
}

// applyPage replaces all fields except id and createdAt.
func applyPage(p *model.Page, in model.PageInput, now time.Time) {
	p.Title = in.Title
	p.Slug = in.Slug
	p.Content = in.Content
	p.Published = in.Published
	p.UpdatedAt = now
}
