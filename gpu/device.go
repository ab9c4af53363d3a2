// Package gpu owns the graphics context and every GPU object created for one
// mounted effect: shaders, programs, meshes, textures and render targets.
//
// All objects live in a single arena, the Host, and are released together by
// Host.Dispose. The raw graphics API sits behind the Device interface so the
// host can be driven by OpenGL in the app and by gputest.Device in tests.
package gpu

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// UniformKind is the GLSL type of an active uniform.
type UniformKind int

const (
	KindUnsupported UniformKind = iota
	KindFloat
	KindInt
	KindVec2
	KindVec3
	KindMat4
	KindSampler
)

func (k UniformKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindVec2:
		return "vec2"
	case KindVec3:
		return "vec3"
	case KindMat4:
		return "mat4"
	case KindSampler:
		return "sampler2D"
	default:
		return "unsupported"
	}
}

// UniformInfo describes one active uniform of a linked program.
type UniformInfo struct {
	Name     string
	Kind     UniformKind
	Location int32
}

// Attribute is one float vertex attribute in an interleaved vertex buffer.
type Attribute struct {
	Location uint32
	Size     int32 // float components
}

// Filter selects texture sampling.
type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
)

// Device is the raw graphics API. Implementations are bound to the thread that
// owns the context and are not safe for concurrent use.
type Device interface {
	// CompileShader compiles one stage. On failure ok is false, log holds the
	// compiler diagnostic and id may still name an object that must be deleted.
	CompileShader(stage ShaderStage, source string) (id uint32, log string, ok bool)
	DeleteShader(id uint32)

	// LinkProgram links two compiled stages, with the same failure contract as
	// CompileShader.
	LinkProgram(vertex, fragment uint32) (id uint32, log string, ok bool)
	DeleteProgram(id uint32)
	ActiveUniforms(program uint32) []UniformInfo
	UseProgram(program uint32)

	SetFloat(location int32, v float32)
	SetInt(location int32, v int32)
	SetVec2(location int32, v mgl32.Vec2)
	SetVec3(location int32, v mgl32.Vec3)
	SetMat4(location int32, v mgl32.Mat4)

	CreateMesh(vertices []float32, indices []uint32, layout []Attribute) (vao, vbo, ebo uint32)
	DeleteMesh(vao, vbo, ebo uint32)
	DrawMesh(vao uint32, indexCount int32)

	CreateTexture(img *image.RGBA, filter Filter) uint32
	DeleteTexture(id uint32)
	BindTexture(unit int32, id uint32)

	// CreateFramebuffer allocates a w×h color target backed by a texture.
	CreateFramebuffer(w, h int) (fbo, texture uint32, err error)
	DeleteFramebuffer(fbo, texture uint32)
	// BindFramebuffer binds fbo for drawing; 0 is the window surface.
	BindFramebuffer(fbo uint32)

	Viewport(w, h int)
	Clear(r, g, b, a float32)
	SetBlend(enabled bool)
	SetDepthTest(enabled bool)

	// Release gives the context back. It pairs with Backend.Acquire.
	Release()
}

// Backend acquires a Device for the current drawing surface.
type Backend interface {
	Acquire() (Device, error)
}
