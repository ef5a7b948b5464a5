package mesh

import (
	gomath "math"

	"github.com/Faultbox/avatar-core/internal/avatar/geometry"
	"github.com/Faultbox/avatar-core/pkg/math"
)

// Build assembles a mesh from validated geometry. Missing normals and UVs are
// generated. The input geometry is not modified.
func Build(g *geometry.Geometry, opts Options) *Mesh {
	m := &Mesh{
		vertices:  append([]math.Vec3(nil), g.Vertices...),
		triangles: make([][3]uint32, len(g.Triangles)),
	}

	for i, t := range g.Triangles {
		if opts.FlipWinding {
			t = [3]uint32{t[0], t[2], t[1]}
		}
		m.triangles[i] = t
	}

	m.bounds = computeBounds(m.vertices)

	if g.Normals != nil {
		m.normals = append([]math.Vec3(nil), g.Normals...)
		if opts.FlipWinding {
			// Supplied normals follow the supplied winding.
			for i := range m.normals {
				m.normals[i] = m.normals[i].Scale(-1)
			}
		}
	} else {
		m.normals = ComputeNormals(m.vertices, m.triangles)
		m.generatedNormals = true
	}

	if g.UVs != nil {
		m.uvs = append([]math.Vec2(nil), g.UVs...)
	} else {
		m.uvs = ProjectUVs(m.vertices, m.bounds)
		m.generatedUVs = true
	}

	return m
}

// ComputeNormals accumulates unnormalized face normals (so larger faces weigh
// more) into their vertices, then normalizes. Vertices touched by no
// non-degenerate face get the up vector. Sums are kept in float64 so that
// neither very large nor very small meshes lose their normals.
func ComputeNormals(vertices []math.Vec3, triangles [][3]uint32) []math.Vec3 {
	sums := make([][3]float64, len(vertices))
	for _, t := range triangles {
		v0 := widen(vertices[t[0]])
		e1 := sub64(widen(vertices[t[1]]), v0)
		e2 := sub64(widen(vertices[t[2]]), v0)
		n := [3]float64{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		for _, idx := range t {
			sums[idx][0] += n[0]
			sums[idx][1] += n[1]
			sums[idx][2] += n[2]
		}
	}

	normals := make([]math.Vec3, len(vertices))
	for i, s := range sums {
		l := gomath.Sqrt(s[0]*s[0] + s[1]*s[1] + s[2]*s[2])
		if l == 0 || gomath.IsInf(l, 0) || gomath.IsNaN(l) {
			normals[i] = math.Up
			continue
		}
		normals[i] = math.Vec3{X: float32(s[0] / l), Y: float32(s[1] / l), Z: float32(s[2] / l)}
	}
	return normals
}

func widen(v math.Vec3) [3]float64 {
	return [3]float64{float64(v.X), float64(v.Y), float64(v.Z)}
}

func sub64(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// ProjectUVs maps each vertex onto the XY plane of the bounding box. A flat
// axis maps to the texture center.
func ProjectUVs(vertices []math.Vec3, b Bounds) []math.Vec2 {
	size := b.Size()
	uvs := make([]math.Vec2, len(vertices))
	for i, v := range vertices {
		u, w := float32(0.5), float32(0.5)
		if size.X > 0 {
			u = math.Clamp((v.X-b.Min.X)/size.X, 0, 1)
		}
		if size.Y > 0 {
			w = math.Clamp((v.Y-b.Min.Y)/size.Y, 0, 1)
		}
		uvs[i] = math.Vec2{X: u, Y: w}
	}
	return uvs
}

func computeBounds(vertices []math.Vec3) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0], Max: vertices[0]}
	for _, v := range vertices[1:] {
		b.Min = b.Min.Min(v)
		b.Max = b.Max.Max(v)
	}
	return b
}
