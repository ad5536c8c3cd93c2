// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"time"

	"github.com/kvdl/kvdl-site/internal/model"
)

// Gallery holds gallery images.
type Gallery struct {
	opts options
	c    collection[model.GalleryImage]
}

// Create stores a new gallery image built from a validated input.
func (s *Gallery) Create(in model.GalleryImageInput) model.GalleryImage {
	now := s.opts.now()
	img := model.GalleryImage{
		ID:         s.opts.newID(),
		UploadedAt: now,
	}
	applyGalleryImage(&img, in, now)
	s.c.insert(img.ID, img, now, nil)
	return img
}

// List returns all gallery images, newest first.
func (s *Gallery) List() []model.GalleryImage {
	return s.c.list()
}

// ByProject returns the images linked to a project, newest first.
func (s *Gallery) ByProject(projectID string) []model.GalleryImage {
	return s.c.filter(func(img model.GalleryImage) bool {
		return img.ProjectID != nil && *img.ProjectID == projectID
	})
}

// Get returns the image with the given id.
func (s *Gallery) Get(id string) (model.GalleryImage, bool) {
	return s.c.get(id)
}

// Update replaces every mutable field of an image.
func (s *Gallery) Update(id string, in model.GalleryImageInput) (model.GalleryImage, bool) {
	now := s.opts.now()
	img, found, _ := s.c.update(id, func(img model.GalleryImage) model.GalleryImage {
		applyGalleryImage(&img, in, now)
		return img
	}, nil)
	return img, found
}

// Delete removes an image record. The image file itself is left alone.
func (s *Gallery) Delete(id string) bool {
	return s.c.delete(id)
}

// Count returns the number of images.
func (s *Gallery) Count() int {
	return s.c.len()
}

// applyGalleryImage replaces all fields except id and uploadedAt.
func applyGalleryImage(img *model.GalleryImage, in model.GalleryImageInput, now time.Time) {
	img.ImageURL = in.ImageURL
	img.Caption = in.Caption
	img.ProjectID = in.ProjectID
	img.UpdatedAt = now
}
