// Package texture decodes avatar texture buffers. Decoding never fails a
// load: a broken or missing buffer degrades to a flat skin-tone material.
package texture

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ErrTextureDecode marks a texture buffer that could not be turned into an
// image. It is always recoverable.
var ErrTextureDecode = errors.New("texture decode failed")

// Decoder turns one named buffer into an RGBA image.
type Decoder interface {
	Decode(name string, data []byte) (*image.RGBA, error)
}

// maxDecodeEdge is the smallest edge limit applied before decoding.
const maxDecodeEdge = 8192

// codec is one supported format. The tga package registers itself with
// image.RegisterFormat under an empty magic string that matches any input,
// so formats are sniffed here instead of through image.Decode.
type codec struct {
	name   string
	magic  string // '?' matches any byte
	decode func(io.Reader) (image.Image, error)
	config func(io.Reader) (image.Config, error)
}

var codecs = []codec{
	{"png", "\x89PNG\r\n\x1a\n", png.Decode, png.DecodeConfig},
	{"jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig},
	{"gif", "GIF8", gif.Decode, gif.DecodeConfig},
	{"bmp", "BM", bmp.Decode, bmp.DecodeConfig},
	{"tiff", "II*\x00", tiff.Decode, tiff.DecodeConfig},
	{"tiff", "MM\x00*", tiff.Decode, tiff.DecodeConfig},
	{"webp", "RIFF????WEBP", webp.Decode, webp.DecodeConfig},
}

// tgaCodec has no magic number and is tried last.
var tgaCodec = codec{"tga", "", tga.Decode, tga.DecodeConfig}

func match(magic string, data []byte) bool {
	if len(data) < len(magic) {
		return false
	}
	for i := 0; i < len(magic); i++ {
		if magic[i] != '?' && magic[i] != data[i] {
			return false
		}
	}
	return true
}

func sniff(data []byte) codec {
	for _, c := range codecs {
		if match(c.magic, data) {
			return c
		}
	}
	return tgaCodec
}

// ImageDecoder decodes PNG, JPEG, GIF, BMP, TIFF, WebP and TGA buffers and
// downscales images larger than MaxSize on their longest edge. MaxSize <= 0
// disables scaling. Images whose header declares an edge above
// max(8192, 4*MaxSize) are rejected without being decoded.
type ImageDecoder struct {
	MaxSize int
}

// Decode implements Decoder.
func (d ImageDecoder) Decode(name string, data []byte) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s: empty buffer", ErrTextureDecode, name)
	}
	c := sniff(data)

	cfg, err := c.config(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s: %w", ErrTextureDecode, name, c.name, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %s: empty %s image", ErrTextureDecode, name, c.name)
	}
	if limit := d.edgeLimit(); cfg.Width > limit || cfg.Height > limit {
		return nil, fmt.Errorf("%w: %s: %dx%d %s image exceeds %d pixels per edge",
			ErrTextureDecode, name, cfg.Width, cfg.Height, c.name, limit)
	}

	img, err := c.decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s: %w", ErrTextureDecode, name, c.name, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: %s: empty %s image", ErrTextureDecode, name, c.name)
	}
	return fit(img, d.MaxSize), nil
}

func (d ImageDecoder) edgeLimit() int {
	return max(maxDecodeEdge, 4*d.MaxSize)
}

// fit converts img to RGBA, scaling it down so neither edge exceeds maxSize.
func fit(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}

	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// DecodeBase64 accepts plain base64 (padded or not) and data URIs.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return nil, fmt.Errorf("%w: malformed data URI", ErrTextureDecode)
		}
		s = s[comma+1:]
	}
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	data, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %w", ErrTextureDecode, err)
	}
	return data, nil
}

// Solid returns a 1x1 image of c, used as the flat material's texture.
func Solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return img
}
