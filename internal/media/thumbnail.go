package media

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// thumbSuffix marks generated thumbnail files
const thumbSuffix = "_thumb"

// ThumbnailPath returns the thumbnail path for an image path
func ThumbnailPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + thumbSuffix + ".jpg"
}

// IsThumbnail reports whether the path names a generated thumbnail
func IsThumbnail(path string) bool {
	ext := filepath.Ext(path)
	return strings.HasSuffix(strings.TrimSuffix(path, ext), thumbSuffix)
}

// IsImagePath reports whether the path names a processable image
func IsImagePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	default:
		return false
	}
}

// GenerateThumbnail writes a JPEG thumbnail next to the source image,
// scaled to fit within max x max while keeping aspect ratio. Images
// already within bounds are copied at original size.
func GenerateThumbnail(path string, max int) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer src.Close()

	img, _, err := image.Decode(src)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > max || h > max {
		if w >= h {
			h = h * max / w
			w = max
		} else {
			w = w * max / h
			h = max
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
	}

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	dst, err := os.Create(ThumbnailPath(path))
	if err != nil {
		return fmt.Errorf("failed to create thumbnail: %w", err)
	}
	defer dst.Close()

	if err := jpeg.Encode(dst, scaled, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return nil
}
