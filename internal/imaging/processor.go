// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging stores uploaded gallery and project images together with
// a resized thumbnail.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Supported image MIME types.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// Thumbnail dimensions used by the gallery grid.
const (
	ThumbnailWidth   = 480
	ThumbnailHeight  = 360
	thumbnailQuality = 85
	originalQuality  = 92
)

const (
	originalsDir  = "originals"
	thumbnailsDir = "thumbnails"
)

// ErrUnsupportedFormat is returned for uploads that are not JPEG, PNG, GIF or WebP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Upload describes a stored image.
type Upload struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	MimeType     string `json:"mimeType"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Size         int64  `json:"size"`
}

// Processor handles image processing operations using pure Go libraries.
type Processor struct {
	uploadDir string
	urlPrefix string
	newID     func() string
}

// NewProcessor creates a processor that writes below uploadDir and builds
// URLs under urlPrefix (for example "/uploads").
func NewProcessor(uploadDir, urlPrefix string) *Processor {
	return &Processor{
		uploadDir: uploadDir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		newID:     uuid.NewString,
	}
}

// Dir returns the directory uploads are written to.
func (p *Processor) Dir() string {
	return p.uploadDir
}

// Process decodes an uploaded image, fixes its EXIF orientation, and stores
// the normalized original plus a thumbnail.
func (p *Processor) Process(reader io.Reader) (*Upload, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	// Re-encoding drops EXIF metadata, including GPS tags from phone cameras.
	outFormat := outputFormat(format)
	processed, err := encodeImage(img, outFormat, originalQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	id := p.newID()
	name := id + extensionFor(outFormat)
	if err := p.saveImageFile(originalsDir, name, processed); err != nil {
		return nil, fmt.Errorf("failed to save original image: %w", err)
	}

	bounds := img.Bounds()
	upload := &Upload{
		ID:           id,
		URL:          p.url(originalsDir, name),
		ThumbnailURL: p.url(originalsDir, name),
		MimeType:     formatToMimeType(outFormat),
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		Size:         int64(len(processed)),
	}

	if thumb := thumbnail(img); thumb != nil {
		encoded, err := encodeImage(thumb, outFormat, thumbnailQuality)
		if err != nil {
			return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
		}
		if err := p.saveImageFile(thumbnailsDir, name, encoded); err != nil {
			return nil, fmt.Errorf("failed to save thumbnail: %w", err)
		}
		upload.ThumbnailURL = p.url(thumbnailsDir, name)
	}

	return upload, nil
}

// Remove deletes the stored original and thumbnail for a file name.
func (p *Processor) Remove(name string) error {
	name = filepath.Base(name)
	for _, dir := range []string{originalsDir, thumbnailsDir} {
		err := os.Remove(filepath.Join(p.uploadDir, dir, name))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete %s/%s: %w", dir, name, err)
		}
	}
	return nil
}

// IsImage checks if a MIME type represents an image that can be processed.
func IsImage(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}

func (p *Processor) url(dir, name string) string {
	return path.Join(p.urlPrefix, dir, name)
}

// thumbnail crops the image to the gallery aspect ratio. Images already
// smaller than the thumbnail box get no thumbnail.
func thumbnail(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= ThumbnailWidth && b.Dy() <= ThumbnailHeight {
		return nil
	}
	return imaging.Fill(img, ThumbnailWidth, ThumbnailHeight, imaging.Center, imaging.Lanczos)
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies EXIF orientation transformation to an image.
// Orientation values:
// 1: Normal
// 2: Flip horizontal
// 3: Rotate 180°
// 4: Flip vertical
// 5: Rotate 90° CW + flip horizontal
// 6: Rotate 90° CW
// 7: Rotate 90° CCW + flip horizontal
// 8: Rotate 90° CCW
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// outputFormat maps a decoded format to the one written to disk.
// WebP has no pure Go encoder, so it is stored as JPEG.
func outputFormat(format string) string {
	if format == "webp" {
		return "jpeg"
	}
	return format
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func extensionFor(format string) string {
	switch format {
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return MimeTypeJPEG
	case "png":
		return MimeTypePNG
	case "gif":
		return MimeTypeGIF
	case "webp":
		return MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}

// saveImageFile creates the directory if needed and saves image data to a file.
// The target directory is validated to be within uploadDir.
func (p *Processor) saveImageFile(subDir, filename string, data []byte) error {
	safeFilename := filepath.Base(filename)
	if safeFilename == "." || safeFilename == ".." || safeFilename == "" {
		return fmt.Errorf("invalid filename")
	}

	absBase, err := filepath.Abs(p.uploadDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %w", err)
	}
	absTarget := filepath.Join(absBase, filepath.Clean(subDir))

	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return fmt.Errorf("path traversal detected")
	}

	if err := os.MkdirAll(absTarget, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(filepath.Join(absTarget, safeFilename), data, 0o644)
}
