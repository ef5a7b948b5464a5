// Package geometry sanitizes untrusted avatar geometry into a form the mesh
// builder can rely on.
package geometry

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/avatar-core/internal/logger"
	"github.com/Faultbox/avatar-core/pkg/math"
)

// ErrInvalidGeometry marks a payload whose vertex or face data cannot be
// turned into a mesh. It is fatal to the load attempt only.
var ErrInvalidGeometry = errors.New("invalid geometry")

// maxReportedIssues caps how many individual problems one error carries.
const maxReportedIssues = 16

// Raw is geometry exactly as received. Nothing about it is trusted.
type Raw struct {
	Vertices [][]float32
	Faces    [][]int
	UVs      [][]float32 // optional, one per vertex
	Normals  [][]float32 // optional, one per vertex
}

// Geometry is validated triangle geometry. Every triangle index is below
// len(Vertices) and every component is finite. UVs and Normals are nil when
// the payload did not carry a usable set.
type Geometry struct {
	Vertices  []math.Vec3
	Triangles [][3]uint32
	UVs       []math.Vec2
	Normals   []math.Vec3
}

// Validate checks raw geometry and converts it. Faces with more than three
// indices are split into a triangle fan. Problems with the optional UV and
// normal sets are not fatal: the set is dropped so the builder regenerates it.
func Validate(raw Raw) (*Geometry, error) {
	if len(raw.Vertices) == 0 {
		return nil, fmt.Errorf("%w: no vertices", ErrInvalidGeometry)
	}
	if len(raw.Faces) == 0 {
		return nil, fmt.Errorf("%w: no faces", ErrInvalidGeometry)
	}

	var issues issueList

	vertices := make([]math.Vec3, len(raw.Vertices))
	for i, v := range raw.Vertices {
		if len(v) != 3 {
			issues.add(fmt.Errorf("vertex %d has %d components", i, len(v)))
			continue
		}
		p := math.Vec3{X: v[0], Y: v[1], Z: v[2]}
		if !p.IsFinite() {
			issues.add(fmt.Errorf("vertex %d is not finite: %v", i, v))
			continue
		}
		vertices[i] = p
	}

	vertexCount := len(vertices)
	triangles := make([][3]uint32, 0, len(raw.Faces))
	for i, face := range raw.Faces {
		if len(face) < 3 {
			issues.add(fmt.Errorf("face %d has %d indices", i, len(face)))
			continue
		}
		valid := true
		for _, idx := range face {
			if idx < 0 || idx >= vertexCount {
				issues.add(fmt.Errorf("face %d index %d out of range [0,%d)", i, idx, vertexCount))
				valid = false
				break
			}
		}
		if !valid {
			continue
		}
		for k := 1; k+1 < len(face); k++ {
			triangles = append(triangles, [3]uint32{uint32(face[0]), uint32(face[k]), uint32(face[k+1])})
		}
	}

	if issues.count > 0 {
		return nil, issues.validationError()
	}

	return &Geometry{
		Vertices:  vertices,
		Triangles: triangles,
		UVs:       optionalUVs(raw.UVs, vertexCount),
		Normals:   optionalNormals(raw.Normals, vertexCount),
	}, nil
}

func optionalUVs(raw [][]float32, vertexCount int) []math.Vec2 {
	if len(raw) == 0 {
		return nil
	}
	if len(raw) != vertexCount {
		logger.Warn("dropping uv set with wrong length",
			zap.Int("uvs", len(raw)), zap.Int("vertices", vertexCount))
		return nil
	}
	uvs := make([]math.Vec2, vertexCount)
	for i, uv := range raw {
		if len(uv) != 2 {
			logger.Warn("dropping malformed uv set", zap.Int("index", i), zap.Int("components", len(uv)))
			return nil
		}
		uvs[i] = math.Vec2{X: uv[0], Y: uv[1]}
		if !uvs[i].IsFinite() {
			logger.Warn("dropping uv set with non-finite coordinate", zap.Int("index", i))
			return nil
		}
	}
	return uvs
}

func optionalNormals(raw [][]float32, vertexCount int) []math.Vec3 {
	if len(raw) == 0 {
		return nil
	}
	if len(raw) != vertexCount {
		logger.Warn("dropping normal set with wrong length",
			zap.Int("normals", len(raw)), zap.Int("vertices", vertexCount))
		return nil
	}
	normals := make([]math.Vec3, vertexCount)
	for i, n := range raw {
		if len(n) != 3 {
			logger.Warn("dropping malformed normal set", zap.Int("index", i), zap.Int("components", len(n)))
			return nil
		}
		v := math.Vec3{X: n[0], Y: n[1], Z: n[2]}
		if !v.IsFinite() || v.Length() == 0 {
			logger.Warn("dropping normal set with degenerate normal", zap.Int("index", i))
			return nil
		}
		normals[i] = v.Normalize()
	}
	return normals
}

// ValidationError carries every problem found in one payload. It matches
// ErrInvalidGeometry under errors.Is.
type ValidationError struct {
	// Issues is a multierr aggregate; use multierr.Errors to list them.
	Issues error
	// Omitted counts problems past maxReportedIssues that were not recorded.
	Omitted int
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%v: %v", ErrInvalidGeometry, e.Issues)
	if e.Omitted > 0 {
		msg += fmt.Sprintf(" (and %d more)", e.Omitted)
	}
	return msg
}

// Is reports whether target is ErrInvalidGeometry.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidGeometry
}

// issueList collects validation problems up to maxReportedIssues.
type issueList struct {
	combined error
	count    int
}

func (l *issueList) add(err error) {
	l.count++
	if l.count <= maxReportedIssues {
		l.combined = multierr.Append(l.combined, err)
	}
}

func (l *issueList) validationError() *ValidationError {
	return &ValidationError{
		Issues:  l.combined,
		Omitted: max(l.count-maxReportedIssues, 0),
	}
}
