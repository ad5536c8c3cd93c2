// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kvdl/kvdl-site/internal/imaging"
)

// UploadsHandler stores uploaded images for projects and the gallery.
type UploadsHandler struct {
	images   *imaging.Processor
	maxBytes int64
}

// NewUploadsHandler creates a new UploadsHandler accepting files up to
// maxBytes.
func NewUploadsHandler(images *imaging.Processor, maxBytes int64) *UploadsHandler {
	return &UploadsHandler{images: images, maxBytes: maxBytes}
}

// Upload handles POST /api/uploads with a multipart "file" field.
func (h *UploadsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "too_large", "File is too large", nil)
			return
		}
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteValidationError(w, map[string]string{"file": "File is required"})
		return
	}
	defer func() { _ = file.Close() }()

	up, err := h.images.Process(file)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			WriteValidationError(w, map[string]string{"file": "File must be a JPEG, PNG, GIF or WebP image"})
			return
		}
		logAndInternalError(w, r, "failed to store upload", err)
		return
	}

	slog.InfoContext(r.Context(), "image uploaded",
		"upload_id", up.ID,
		"filename", header.Filename,
		"size", up.Size,
	)
	WriteCreated(w, up)
}
