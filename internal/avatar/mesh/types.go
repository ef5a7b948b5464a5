// Package mesh assembles validated geometry into an immutable renderable mesh.
package mesh

import "github.com/Faultbox/avatar-core/pkg/math"

// Options control mesh assembly.
type Options struct {
	// FlipWinding reverses every triangle (a,b,c) -> (a,c,b) before normals
	// are generated. Producers disagree on winding, so this is explicit.
	FlipWinding bool
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the box center.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extent per axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Mesh is renderable triangle data. It is never mutated after Build; the
// accessors return copies so callers cannot change it either.
type Mesh struct {
	vertices  []math.Vec3
	normals   []math.Vec3
	uvs       []math.Vec2
	triangles [][3]uint32
	bounds    Bounds

	generatedNormals bool
	generatedUVs     bool
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.vertices) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.triangles) }

// Bounds returns the axis-aligned bounding box.
func (m *Mesh) Bounds() Bounds { return m.bounds }

// GeneratedNormals reports whether normals were computed by the builder.
func (m *Mesh) GeneratedNormals() bool { return m.generatedNormals }

// GeneratedUVs reports whether UVs were projected by the builder.
func (m *Mesh) GeneratedUVs() bool { return m.generatedUVs }

// Vertices returns a copy of the vertex positions.
func (m *Mesh) Vertices() []math.Vec3 { return append([]math.Vec3(nil), m.vertices...) }

// Normals returns a copy of the per-vertex normals.
func (m *Mesh) Normals() []math.Vec3 { return append([]math.Vec3(nil), m.normals...) }

// UVs returns a copy of the per-vertex texture coordinates.
func (m *Mesh) UVs() []math.Vec2 { return append([]math.Vec2(nil), m.uvs...) }

// Triangles returns a copy of the triangle index list.
func (m *Mesh) Triangles() [][3]uint32 { return append([][3]uint32(nil), m.triangles...) }

// Indices returns the triangle list flattened for an index buffer.
func (m *Mesh) Indices() []uint32 {
	out := make([]uint32, 0, len(m.triangles)*3)
	for _, t := range m.triangles {
		out = append(out, t[0], t[1], t[2])
	}
	return out
}
