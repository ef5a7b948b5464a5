// Package renderer draws the avatar mesh with OpenGL.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/avatar-core/internal/avatar"
	"github.com/Faultbox/avatar-core/internal/engine/lighting"
	"github.com/Faultbox/avatar-core/internal/engine/shader"
	"github.com/Faultbox/avatar-core/internal/logger"
	"github.com/Faultbox/avatar-core/internal/presenter"
	"github.com/Faultbox/avatar-core/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width       int
	Height      int
	FieldOfView float32 // vertical, degrees
}

// Renderer uploads avatar models and draws presenter frames. It implements
// presenter.Scene and must be used on the GL thread.
type Renderer struct {
	config  Config
	program *shader.Program

	meshes  map[*avatar.Model]*gpuMesh
	scratch []float32
}

type gpuMesh struct {
	vao, vbo, ebo uint32
	texture       uint32
	indexCount    int32

	normals []math.Vec3
	uvs     []math.Vec2
	light   lighting.Params
}

// New creates a renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	program, err := shader.Compile(avatarVertexShader, avatarFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("avatar shader: %w", err)
	}

	r := &Renderer{
		config:  cfg,
		program: program,
		meshes:  make(map[*avatar.Model]*gpuMesh),
	}
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close frees all GPU resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for m := range r.meshes {
		r.DetachAvatar(m)
	}
	r.program.Delete()
}

// Resize sets the viewport to the drawable size.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Projection returns the perspective matrix for the current viewport.
func (r *Renderer) Projection() math.Mat4 {
	aspect := float32(r.config.Width) / float32(r.config.Height)
	return math.Perspective(math.Radians(r.config.FieldOfView), aspect, 0.05, 100)
}

// AttachAvatar uploads m. Attaching an already attached model is a no-op.
func (r *Renderer) AttachAvatar(m *avatar.Model) {
	if _, ok := r.meshes[m]; ok {
		return
	}
	g := &gpuMesh{
		normals: m.Mesh.Normals(),
		uvs:     m.Mesh.UVs(),
		light:   lighting.FromModel(m),
	}
	indices := m.Mesh.Indices()
	g.indexCount = int32(len(indices))

	r.scratch = interleave(r.scratch, m.Mesh.Vertices(), g.normals, g.uvs)

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.scratch)*4, gl.Ptr(r.scratch), gl.DYNAMIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}

	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	g.texture = uploadTexture(m.Material.Diffuse)
	r.meshes[m] = g

	logger.Debug("avatar uploaded",
		zap.String("avatar", m.ID),
		zap.Int("vertices", m.Mesh.VertexCount()),
		zap.Int32("indices", g.indexCount),
	)
}

// DetachAvatar frees the GPU resources of m.
func (r *Renderer) DetachAvatar(m *avatar.Model) {
	g, ok := r.meshes[m]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteBuffers(1, &g.ebo)
	gl.DeleteTextures(1, &g.texture)
	delete(r.meshes, m)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders one presenter frame. Frames for models that were never
// attached are skipped.
func (r *Renderer) Draw(f presenter.Frame) {
	g, ok := r.meshes[f.Model]
	if !ok || g.indexCount == 0 {
		return
	}

	// Deformed normals are not recomputed; blend-shape offsets are small.
	r.scratch = interleave(r.scratch, f.Vertices, g.normals, g.uvs)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(r.scratch)*4, gl.Ptr(r.scratch))

	bounds := f.Model.Bounds()
	pivot, lo, hi := headRig(bounds)
	eyeLo, eyeMid, eyeHi := eyeRig(bounds)

	p := r.program
	p.Use()
	p.SetMat4("uProjection", r.Projection())
	p.SetMat4("uView", f.View)
	p.SetMat4("uModel", modelMatrix(bounds, f.Pose))
	p.SetMat4("uHeadRot", headMatrix(f.Pose))
	p.SetVec3("uHeadPivot", [3]float32{pivot.X, pivot.Y, pivot.Z})
	p.SetFloat("uNeckLow", lo)
	p.SetFloat("uNeckHigh", hi)
	p.SetVec3("uEyeBand", [3]float32{eyeLo, eyeMid, eyeHi})
	p.SetFloat("uEyeScale", eyeSquash(f.Pose, f.Model.BlendShapes.Has(presenter.BlinkChannel)))

	pos := f.Camera.Position
	p.SetVec3("uCameraPos", [3]float32{pos.X, pos.Y, pos.Z})
	p.SetVec3("uLightDir", g.light.Direction)
	p.SetFloat("uAmbient", g.light.Ambient)
	p.SetFloat("uDirectional", g.light.Directional)
	p.SetFloat("uRim", g.light.Rim)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, g.texture)
	p.SetInt("uDiffuse", 0)

	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func uploadTexture(img *image.RGBA) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return texID
}
