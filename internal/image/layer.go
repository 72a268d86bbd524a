// Package image loads the background raster shown under the schematic.
package image

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Background is a decoded background image.
type Background struct {
	Path   string      // Original file path
	Image  image.Image // Decoded pixels
	Format string      // Decoder name ("png", "jpeg", ...)
}

// Load decodes the image at path.
func Load(path string) (*Background, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filepath.Base(path), err)
	}

	return &Background{Path: path, Image: img, Format: format}, nil
}

// Width returns the image width in pixels.
func (b *Background) Width() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (b *Background) Height() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dy()
}

// SupportedFormats returns the file extensions that can be loaded.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif"}
}
