package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/Faultbox/avatar-core/internal/avatar"
	"github.com/Faultbox/avatar-core/internal/avatar/mesh"
	"github.com/Faultbox/avatar-core/internal/engine/capture"
	"github.com/Faultbox/avatar-core/pkg/math"
)

var (
	uvBackground = color.RGBA{R: 24, G: 24, B: 32, A: 255}
	uvEdge       = color.RGBA{R: 120, G: 220, B: 160, A: 255}
)

func cmdUVMap(args []string) error {
	fs := flag.NewFlagSet("uvmap", flag.ExitOnError)
	size := fs.Int("size", 512, "Image size in pixels")
	out := fs.String("o", "uvmap.png", "Output file (.png or .webp)")
	overlay := fs.Bool("texture", false, "Draw over the diffuse texture")
	fs.Parse(args)

	if *size < 2 || *size > 8192 {
		return fmt.Errorf("size %d out of range", *size)
	}

	a, err := loadPayload(fs, "uvmap [options] <payload.json>")
	if err != nil {
		return err
	}
	m, err := avatar.NewBuilder(avatar.DefaultConfig(), nil).Build(context.Background(), a)
	if err != nil {
		return err
	}

	var tex image.Image
	if *overlay && !m.Material.Flat {
		tex = m.Material.Diffuse
	}
	img := renderUVLayout(m.Mesh, *size, tex)

	format := capture.FormatPNG
	if strings.EqualFold(filepath.Ext(*out), ".webp") {
		format = capture.FormatWebP
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := capture.Encode(f, img, format); err != nil {
		return err
	}

	src := "payload"
	if m.Mesh.GeneratedUVs() {
		src = "generated"
	}
	fmt.Printf("wrote %s (%d triangles, %s uvs)\n", *out, m.Mesh.TriangleCount(), src)
	return nil
}

// renderUVLayout draws every triangle edge in UV space at size x size, over
// tex when it is not nil. V points up, so row 0 is v = 1.
func renderUVLayout(m *mesh.Mesh, size int, tex image.Image) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(uvBackground), image.Point{}, draw.Src)
	if tex != nil {
		draw.CatmullRom.Scale(img, img.Bounds(), tex, tex.Bounds(), draw.Over, nil)
	}

	uvs := m.UVs()
	toPixel := func(uv math.Vec2) image.Point {
		u := math.Clamp(uv.X, 0, 1)
		v := math.Clamp(uv.Y, 0, 1)
		return image.Pt(int(u*float32(size-1)+0.5), int((1-v)*float32(size-1)+0.5))
	}
	for _, tri := range m.Triangles() {
		a, b, c := toPixel(uvs[tri[0]]), toPixel(uvs[tri[1]]), toPixel(uvs[tri[2]])
		drawLine(img, a, b, uvEdge)
		drawLine(img, b, c, uvEdge)
		drawLine(img, c, a, uvEdge)
	}
	return img
}

// drawLine plots a Bresenham line from a to b.
func drawLine(img *image.RGBA, a, b image.Point, c color.RGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	for {
		img.SetRGBA(a.X, a.Y, c)
		if a == b {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			a.X += sx
		}
		if e2 <= dx {
			err += dx
			a.Y += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
