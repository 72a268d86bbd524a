package render

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"chip-tracer/internal/canvas"

	"golang.org/x/image/bmp"
)

// JPEGQuality is the quality used for JPEG exports.
const JPEGQuality = 95

// Format is an export image format.
type Format int

const (
	FormatJPEG Format = iota
	FormatPNG
	FormatBMP
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	default:
		return "jpeg"
	}
}

// FormatFromPath picks the format from the file extension. Anything other
// than .png or .bmp is written as JPEG.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG
	case ".bmp":
		return FormatBMP
	default:
		return FormatJPEG
	}
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	default:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	}
}

// Export renders the whole scene and writes it to path.
func (r *Renderer) Export(e *canvas.Engine, path string) error {
	img := r.Scene(e)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := Encode(w, img, FormatFromPath(path)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", FormatFromPath(path), err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return f.Close()
}
