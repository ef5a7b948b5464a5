package geometry

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"go.uber.org/multierr"
)

func triangle() Raw {
	return Raw{
		Vertices: [][]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Faces:    [][]int{{0, 1, 2}},
	}
}

func TestValidateAcceptsTriangle(t *testing.T) {
	g, err := Validate(triangle())
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if len(g.Vertices) != 3 || len(g.Triangles) != 1 {
		t.Errorf("got %d vertices / %d triangles, want 3 / 1", len(g.Vertices), len(g.Triangles))
	}
	if g.UVs != nil || g.Normals != nil {
		t.Error("absent uvs/normals should stay nil")
	}
}

func TestValidateRejects(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(-1))

	tests := []struct {
		name   string
		mutate func(*Raw)
	}{
		{"no vertices", func(r *Raw) { r.Vertices = nil }},
		{"no faces", func(r *Raw) { r.Faces = nil }},
		{"nan vertex", func(r *Raw) { r.Vertices[1][0] = nan }},
		{"infinite vertex", func(r *Raw) { r.Vertices[2][2] = inf }},
		{"short vertex", func(r *Raw) { r.Vertices[0] = []float32{0, 0} }},
		{"index out of range", func(r *Raw) { r.Faces[0][2] = 3 }},
		{"negative index", func(r *Raw) { r.Faces[0][0] = -1 }},
		{"degenerate face", func(r *Raw) { r.Faces = append(r.Faces, []int{0, 1}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := triangle()
			tt.mutate(&raw)
			g, err := Validate(raw)
			if err == nil {
				t.Fatalf("expected error, got geometry %+v", g)
			}
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("error %v should wrap ErrInvalidGeometry", err)
			}
		})
	}
}

func TestValidateAggregatesIssues(t *testing.T) {
	raw := triangle()
	raw.Vertices[0][0] = float32(math.NaN())
	raw.Faces = append(raw.Faces, []int{0, 1, 9})

	_, err := Validate(raw)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if n := len(multierr.Errors(verr.Issues)); n != 2 {
		t.Errorf("aggregated %d issues, want 2", n)
	}
}

func TestValidateCapsReportedIssues(t *testing.T) {
	raw := triangle()
	for i := 0; i < 100; i++ {
		raw.Faces = append(raw.Faces, []int{0, 1, 50 + i})
	}

	_, err := Validate(raw)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if n := len(multierr.Errors(verr.Issues)); n != maxReportedIssues {
		t.Errorf("recorded %d issues, want %d", n, maxReportedIssues)
	}
	if verr.Omitted != 100-maxReportedIssues {
		t.Errorf("Omitted = %d, want %d", verr.Omitted, 100-maxReportedIssues)
	}
}

func TestValidateFanTriangulates(t *testing.T) {
	raw := Raw{
		Vertices: [][]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {-1, 0.5, 0}},
		Faces:    [][]int{{0, 1, 2, 3, 4}},
	}
	g, err := Validate(raw)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	want := [][3]uint32{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}}
	if len(g.Triangles) != len(want) {
		t.Fatalf("got %d triangles, want %d", len(g.Triangles), len(want))
	}
	for i := range want {
		if g.Triangles[i] != want[i] {
			t.Errorf("triangle %d = %v, want %v", i, g.Triangles[i], want[i])
		}
	}
}

func TestValidateDropsBadOptionalSets(t *testing.T) {
	tests := []struct {
		name        string
		uvs         [][]float32
		normals     [][]float32
		wantUVs     bool
		wantNormals bool
	}{
		{"valid sets", [][]float32{{0, 0}, {1, 0}, {0, 1}}, [][]float32{{0, 0, 2}, {0, 0, 1}, {0, 0, 1}}, true, true},
		{"short uvs", [][]float32{{0, 0}}, nil, false, false},
		{"nan uv", [][]float32{{0, 0}, {float32(math.NaN()), 0}, {0, 1}}, nil, false, false},
		{"zero normal", nil, [][]float32{{0, 0, 0}, {0, 0, 1}, {0, 0, 1}}, false, false},
		{"two-component normal", nil, [][]float32{{0, 0}, {0, 0, 1}, {0, 0, 1}}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := triangle()
			raw.UVs = tt.uvs
			raw.Normals = tt.normals
			g, err := Validate(raw)
			if err != nil {
				t.Fatalf("optional set problems must not fail validation: %v", err)
			}
			if (g.UVs != nil) != tt.wantUVs {
				t.Errorf("UVs kept = %v, want %v", g.UVs != nil, tt.wantUVs)
			}
			if (g.Normals != nil) != tt.wantNormals {
				t.Errorf("Normals kept = %v, want %v", g.Normals != nil, tt.wantNormals)
			}
			if tt.wantNormals && g.Normals[0].Length() < 0.999 {
				t.Errorf("kept normals should be normalized, got %v", g.Normals[0])
			}
		})
	}
}

// Every accepted geometry keeps all triangle indices below the vertex count,
// no matter what the raw faces looked like.
func TestValidateRandomPayloadsKeepIndicesInRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for iter := 0; iter < 500; iter++ {
		raw := randomRaw(rng)
		g, err := Validate(raw)
		if err != nil {
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Fatalf("iteration %d: unexpected error type %v", iter, err)
			}
			continue
		}
		assertIndicesInRange(t, g)
	}
}

func FuzzValidate(f *testing.F) {
	f.Add(uint64(1), uint64(2))
	f.Add(uint64(99), uint64(3))
	f.Fuzz(func(t *testing.T, a, b uint64) {
		raw := randomRaw(rand.New(rand.NewPCG(a, b)))
		g, err := Validate(raw)
		if err != nil {
			return
		}
		assertIndicesInRange(t, g)
	})
}

func assertIndicesInRange(t *testing.T, g *Geometry) {
	t.Helper()
	n := uint32(len(g.Vertices))
	for i, tri := range g.Triangles {
		for _, idx := range tri {
			if idx >= n {
				t.Fatalf("triangle %d index %d >= vertex count %d", i, idx, n)
			}
		}
	}
	for i, v := range g.Vertices {
		if !v.IsFinite() {
			t.Fatalf("vertex %d not finite: %v", i, v)
		}
	}
}

func randomRaw(rng *rand.Rand) Raw {
	vertexCount := rng.IntN(12)
	raw := Raw{Vertices: make([][]float32, vertexCount)}
	for i := range raw.Vertices {
		v := []float32{rng.Float32()*2 - 1, rng.Float32()*2 - 1, rng.Float32()*2 - 1}
		switch rng.IntN(40) {
		case 0:
			v[rng.IntN(3)] = float32(math.NaN())
		case 1:
			v[rng.IntN(3)] = float32(math.Inf(1))
		}
		raw.Vertices[i] = v
	}
	faceCount := rng.IntN(10)
	for i := 0; i < faceCount; i++ {
		face := make([]int, 3+rng.IntN(3))
		for j := range face {
			// Allow indices past the end and below zero.
			face[j] = rng.IntN(vertexCount+3) - 1
		}
		raw.Faces = append(raw.Faces, face)
	}
	return raw
}
