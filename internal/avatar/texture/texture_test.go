package texture

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/avatar-core/internal/logger"
)

var skin = color.RGBA{R: 204, G: 178, B: 153, A: 255}

func encodePNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestImageDecoderDecodesPNG(t *testing.T) {
	data := encodePNG(t, 4, 2, color.RGBA{R: 255, A: 255})

	img, err := ImageDecoder{}.Decode("diffuse", data)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Errorf("size = %v, want 4x2", img.Bounds())
	}
	if got := img.RGBAAt(1, 1); got.R != 255 {
		t.Errorf("pixel = %v, want red", got)
	}
}

func TestImageDecoderDownscales(t *testing.T) {
	data := encodePNG(t, 64, 32, color.RGBA{G: 255, A: 255})

	img, err := ImageDecoder{MaxSize: 16}.Decode("diffuse", data)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 8 {
		t.Errorf("size = %v, want 16x8", img.Bounds())
	}
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// rawTGA builds an uncompressed, top-left origin 32-bit TGA.
func rawTGA(w, h int, c color.RGBA) []byte {
	data := []byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, byte(w), byte(w >> 8), byte(h), byte(h >> 8), 32, 0x28}
	for i := 0; i < w*h; i++ {
		data = append(data, c.B, c.G, c.R, c.A)
	}
	return data
}

func TestImageDecoderFormats(t *testing.T) {
	src := solidImage(4, 2, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	encode := func(fn func(*bytes.Buffer) error) []byte {
		var buf bytes.Buffer
		if err := fn(&buf); err != nil {
			t.Fatalf("encode: %v", err)
		}
		return buf.Bytes()
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"png", encode(func(b *bytes.Buffer) error { return png.Encode(b, src) })},
		{"jpeg", encode(func(b *bytes.Buffer) error { return jpeg.Encode(b, src, nil) })},
		{"gif", encode(func(b *bytes.Buffer) error { return gif.Encode(b, src, nil) })},
		{"bmp", encode(func(b *bytes.Buffer) error { return bmp.Encode(b, src) })},
		{"tiff", encode(func(b *bytes.Buffer) error { return tiff.Encode(b, src, nil) })},
		{"webp", encode(func(b *bytes.Buffer) error { return nativewebp.Encode(b, src, nil) })},
		{"tga", rawTGA(4, 2, color.RGBA{R: 200, G: 100, B: 50, A: 255})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sniff(tt.data).name; got != tt.name {
				t.Errorf("sniffed %s, want %s", got, tt.name)
			}
			img, err := ImageDecoder{}.Decode("diffuse", tt.data)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
				t.Errorf("size = %v, want 4x2", img.Bounds())
			}
		})
	}
}

// withPNGSize rewrites the IHDR dimensions of a PNG and fixes its checksum.
func withPNGSize(data []byte, w, h uint32) []byte {
	out := append([]byte(nil), data...)
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestImageDecoderRejectsOversizedHeader(t *testing.T) {
	forged := withPNGSize(encodePNG(t, 1, 1, skin), 16000, 16000)

	_, err := ImageDecoder{MaxSize: 1024}.Decode("diffuse", forged)
	if !errors.Is(err, ErrTextureDecode) {
		t.Fatalf("error = %v, want ErrTextureDecode", err)
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("error = %v, want a size rejection", err)
	}
}

func TestImageDecoderEdgeLimit(t *testing.T) {
	tests := []struct {
		maxSize int
		want    int
	}{
		{0, 8192},
		{1024, 8192},
		{4096, 16384},
	}
	for _, tt := range tests {
		if got := (ImageDecoder{MaxSize: tt.maxSize}).edgeLimit(); got != tt.want {
			t.Errorf("edgeLimit(MaxSize=%d) = %d, want %d", tt.maxSize, got, tt.want)
		}
	}
}

func TestImageDecoderRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("definitely not an image")},
		{"truncated png", encodePNG(t, 8, 8, skin)[:20]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImageDecoder{}.Decode("diffuse", tt.data)
			if !errors.Is(err, ErrTextureDecode) {
				t.Errorf("error = %v, want ErrTextureDecode", err)
			}
		})
	}
}

func TestDecodeBase64(t *testing.T) {
	raw := []byte("avatar")
	std := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"padded", std, false},
		{"unpadded", base64.RawStdEncoding.EncodeToString(raw), false},
		{"data uri", "data:image/png;base64," + std, false},
		{"whitespace", "  " + std + "\n", false},
		{"bad uri", "data:image/png;base64" + std, true},
		{"not base64", "***", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBase64(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeBase64() error: %v", err)
			}
			if string(got) != "avatar" {
				t.Errorf("got %q, want avatar", got)
			}
		})
	}
}

func TestLoadSetDecodesAllBuffers(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(encodePNG(t, 2, 2, color.RGBA{B: 255, A: 255}))
	buffers := map[string]string{
		"diffuse":  encoded,
		"normal":   encoded,
		"specular": encoded,
	}

	m, err := LoadSet(context.Background(), ImageDecoder{}, buffers, skin)
	if err != nil {
		t.Fatalf("LoadSet() error: %v", err)
	}
	if m.Flat {
		t.Error("material should not be flat with a valid diffuse")
	}
	if m.Normal == nil || m.Specular == nil {
		t.Error("normal and specular should be decoded")
	}
	if m.Roughness != nil {
		t.Error("absent roughness should stay nil")
	}
}

func TestLoadSetFallsBackToFlat(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.SetLogger(zap.New(core))
	defer logger.SetLogger(nil)

	buffers := map[string]string{
		"diffuse": base64.StdEncoding.EncodeToString([]byte("corrupt")),
		"normal":  "!!!",
	}

	m, err := LoadSet(context.Background(), ImageDecoder{}, buffers, skin)
	if err != nil {
		t.Fatalf("decode failures must not surface: %v", err)
	}
	if !m.Flat {
		t.Error("expected flat fallback material")
	}
	if got := m.Diffuse.RGBAAt(0, 0); got != skin {
		t.Errorf("flat diffuse = %v, want skin tone %v", got, skin)
	}
	if m.Normal != nil {
		t.Error("corrupt normal map should be dropped")
	}
	if n := logs.FilterMessage("texture unusable, falling back").Len(); n != 2 {
		t.Errorf("logged %d fallback warnings, want 2", n)
	}
}

func TestLoadSetWithNoBuffers(t *testing.T) {
	m, err := LoadSet(context.Background(), ImageDecoder{}, nil, skin)
	if err != nil {
		t.Fatalf("LoadSet() error: %v", err)
	}
	if !m.Flat || m.BaseColor != skin {
		t.Errorf("expected flat skin material, got %+v", m)
	}
}

func TestLoadSetCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buffers := map[string]string{"diffuse": base64.StdEncoding.EncodeToString(encodePNG(t, 1, 1, skin))}
	if _, err := LoadSet(ctx, ImageDecoder{}, buffers, skin); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
