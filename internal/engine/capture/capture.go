// Package capture writes rendered frames to disk as PNG or WebP.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// Supported output formats.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// ErrUnsupportedFormat is returned for formats other than png and webp.
var ErrUnsupportedFormat = errors.New("unsupported capture format")

// Exporter saves frames into a directory with timestamped names.
type Exporter struct {
	outputDir string
	prefix    string
	format    string
	now       func() time.Time
	seq       int
}

// NewExporter creates an exporter. An empty format means PNG.
func NewExporter(outputDir, prefix, format string) (*Exporter, error) {
	if format == "" {
		format = FormatPNG
	}
	if format != FormatPNG && format != FormatWebP {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return &Exporter{outputDir: outputDir, prefix: prefix, format: format, now: time.Now}, nil
}

// Format returns the output format.
func (e *Exporter) Format() string { return e.format }

// FromPixels converts bottom-up RGBA rows as read back from OpenGL into a
// top-down image.
func FromPixels(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

// SavePixels writes raw OpenGL pixels and returns the file path.
func (e *Exporter) SavePixels(pixels []byte, width, height int) (string, error) {
	img, err := FromPixels(pixels, width, height)
	if err != nil {
		return "", err
	}
	return e.Save(img)
}

// Save writes img and returns the file path.
func (e *Exporter) Save(img image.Image) (string, error) {
	if e.outputDir != "" {
		if err := os.MkdirAll(e.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := e.nextFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := Encode(file, img, e.format); err != nil {
		file.Close()
		os.Remove(filename)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", filename, err)
	}
	return filename, nil
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case FormatPNG, "":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encoding PNG: %w", err)
		}
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("encoding WebP: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return nil
}

// nextFilename builds a unique name; the sequence number keeps captures
// taken within the same second apart.
func (e *Exporter) nextFilename() string {
	e.seq++
	timestamp := e.now().Format("2006-01-02_15-04-05")
	name := fmt.Sprintf("%s_%s_%03d.%s", e.prefix, timestamp, e.seq, e.format)
	if e.outputDir != "" {
		name = filepath.Join(e.outputDir, name)
	}
	return name
}
