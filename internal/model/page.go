// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/kvdl/kvdl-site/internal/util"
)

// Page is a custom content page managed from the admin area.
// Content is stored as Markdown.
type Page struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PageInput holds the mutable fields of a Page.
type PageInput struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
}

// Normalize trims the title and derives a slug from it when none is given.
func (in *PageInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" {
		in.Slug = util.Slugify(in.Title)
	}
}

// Validate checks the shape of a page payload. Slug uniqueness is checked
// against the store by the caller.
func (in PageInput) Validate() FieldErrors {
	errs := FieldErrors{}
	errs.required("title", in.Title)
	if in.Slug == "" {
		errs.add("slug", "Slug is required")
	} else if !util.IsValidSlug(in.Slug) {
		errs.add("slug", "Invalid slug format (use lowercase letters, numbers, and hyphens)")
	}
	errs.required("content", in.Content)
	return errs.orNil()
}
