// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// GalleryImage is a picture shown in the public gallery, optionally linked
// to a project.
type GalleryImage struct {
	ID         string    `json:"id"`
	ImageURL   string    `json:"imageUrl"`
	Caption    *string   `json:"caption"`
	ProjectID  *string   `json:"projectId"`
	UploadedAt time.Time `json:"uploadedAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// GalleryImageInput holds the mutable fields of a GalleryImage.
type GalleryImageInput struct {
	ImageURL  string  `json:"imageUrl"`
	Caption   *string `json:"caption"`
	ProjectID *string `json:"projectId"`
}

// Normalize trims text fields and drops blank optional values.
func (in *GalleryImageInput) Normalize() {
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Caption = trimOptional(in.Caption)
	in.ProjectID = trimOptional(in.ProjectID)
}

// Validate checks the shape of a gallery image payload.
func (in GalleryImageInput) Validate() FieldErrors {
	errs := FieldErrors{}
	errs.required("imageUrl", in.ImageURL)
	return errs.orNil()
}
