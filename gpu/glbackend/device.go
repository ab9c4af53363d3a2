// Package glbackend implements gpu.Device on OpenGL 3.3 core.
//
// The context itself is created by the window; Acquire loads the function
// pointers against whatever context is current on the calling thread.
package glbackend

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sheen/gpu"
)

// Backend acquires the current OpenGL context.
type Backend struct{}

// Acquire loads the GL entry points. It fails when no context is current or
// the driver is older than 3.3.
func (Backend) Acquire() (gpu.Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("loading gl: %w", err)
	}
	var major, minor int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)
	if major < 3 || (major == 3 && minor < 3) {
		return nil, fmt.Errorf("opengl %d.%d below 3.3", major, minor)
	}
	return &Device{}, nil
}

// Version returns the driver version string.
func Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Device issues OpenGL calls. It must only be used from the context thread.
type Device struct {
	released bool
}

func glStage(s gpu.ShaderStage) uint32 {
	if s == gpu.StageVertex {
		return gl.VERTEX_SHADER
	}
	return gl.FRAGMENT_SHADER
}

func (d *Device) CompileShader(stage gpu.ShaderStage, source string) (uint32, string, bool) {
	shader := gl.CreateShader(glStage(stage))
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return shader, strings.TrimRight(log, "\x00"), false
	}
	return shader, "", true
}

func (d *Device) DeleteShader(id uint32) { gl.DeleteShader(id) }

func (d *Device) LinkProgram(vertex, fragment uint32) (uint32, string, bool) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)
	gl.DetachShader(program, vertex)
	gl.DetachShader(program, fragment)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return program, strings.TrimRight(log, "\x00"), false
	}
	return program, "", true
}

func (d *Device) DeleteProgram(id uint32) { gl.DeleteProgram(id) }

var uniformKinds = map[uint32]gpu.UniformKind{
	gl.FLOAT:      gpu.KindFloat,
	gl.INT:        gpu.KindInt,
	gl.FLOAT_VEC2: gpu.KindVec2,
	gl.FLOAT_VEC3: gpu.KindVec3,
	gl.FLOAT_MAT4: gpu.KindMat4,
	gl.SAMPLER_2D: gpu.KindSampler,
}

func (d *Device) ActiveUniforms(program uint32) []gpu.UniformInfo {
	var count, maxLen int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)

	buf := make([]uint8, maxLen+1)
	out := make([]gpu.UniformInfo, 0, count)
	for i := range uint32(count) {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(program, i, int32(len(buf)), &length, &size, &xtype, &buf[0])
		name := strings.TrimSuffix(string(buf[:length]), "[0]")
		if strings.HasPrefix(name, "gl_") {
			continue
		}
		out = append(out, gpu.UniformInfo{
			Name:     name,
			Kind:     uniformKinds[xtype],
			Location: gl.GetUniformLocation(program, gl.Str(name+"\x00")),
		})
	}
	return out
}

func (d *Device) UseProgram(program uint32) { gl.UseProgram(program) }

func (d *Device) SetFloat(location int32, v float32) { gl.Uniform1f(location, v) }
func (d *Device) SetInt(location int32, v int32)     { gl.Uniform1i(location, v) }
func (d *Device) SetVec2(location int32, v mgl32.Vec2) {
	gl.Uniform2f(location, v[0], v[1])
}
func (d *Device) SetVec3(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}
func (d *Device) SetMat4(location int32, v mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &v[0])
}

func (d *Device) CreateMesh(vertices []float32, indices []uint32, layout []gpu.Attribute) (vao, vbo, ebo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	var stride int32
	for _, a := range layout {
		stride += a.Size * 4
	}
	var offset uintptr
	for _, a := range layout {
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false, stride, offset)
		offset += uintptr(a.Size) * 4
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo, ebo
}

func (d *Device) DeleteMesh(vao, vbo, ebo uint32) {
	gl.DeleteVertexArrays(1, &vao)
	gl.DeleteBuffers(1, &vbo)
	gl.DeleteBuffers(1, &ebo)
}

func (d *Device) DrawMesh(vao uint32, indexCount int32) {
	gl.BindVertexArray(vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

func (d *Device) CreateTexture(img *image.RGBA, filter gpu.Filter) uint32 {
	b := img.Bounds()
	if img.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		packed := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(packed, packed.Bounds(), img, b.Min, draw.Src)
		img = packed
	}

	mode := int32(gl.LINEAR)
	if filter == gpu.FilterNearest {
		mode = gl.NEAREST
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, mode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, mode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

func (d *Device) DeleteTexture(id uint32) { gl.DeleteTextures(1, &id) }

func (d *Device) BindTexture(unit int32, id uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, id)
	if unit != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
	}
}

var errIncompleteFramebuffer = errors.New("incomplete framebuffer")

func (d *Device) CreateFramebuffer(w, h int) (fbo, tex uint32, err error) {
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		d.DeleteFramebuffer(fbo, tex)
		return 0, 0, fmt.Errorf("%w: status 0x%x", errIncompleteFramebuffer, status)
	}
	return fbo, tex, nil
}

func (d *Device) DeleteFramebuffer(fbo, tex uint32) {
	gl.DeleteFramebuffers(1, &fbo)
	gl.DeleteTextures(1, &tex)
}

func (d *Device) BindFramebuffer(fbo uint32) { gl.BindFramebuffer(gl.FRAMEBUFFER, fbo) }

func (d *Device) Viewport(w, h int) { gl.Viewport(0, 0, int32(w), int32(h)) }

func (d *Device) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) SetBlend(enabled bool) {
	if enabled {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		return
	}
	gl.Disable(gl.BLEND)
}

func (d *Device) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
		return
	}
	gl.Disable(gl.DEPTH_TEST)
}

// Release unbinds everything the effect may have left bound. The context
// itself belongs to the window.
func (d *Device) Release() {
	if d.released {
		return
	}
	d.released = true
	gl.BindVertexArray(0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.UseProgram(0)
}
