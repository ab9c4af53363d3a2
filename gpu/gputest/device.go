// Package gputest provides an in-memory gpu.Device that records every call,
// for testing rendering code without a graphics context.
package gputest

import (
	"errors"
	"image"
	"regexp"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sheen/gpu"
)

var uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+(\w+)\s+(\w+)\s*;`)

var glslKinds = map[string]gpu.UniformKind{
	"float":     gpu.KindFloat,
	"int":       gpu.KindInt,
	"vec2":      gpu.KindVec2,
	"vec3":      gpu.KindVec3,
	"mat4":      gpu.KindMat4,
	"sampler2D": gpu.KindSampler,
}

// Draw is one recorded DrawMesh call.
type Draw struct {
	Program     uint32
	VAO         uint32
	Count       int32
	Framebuffer uint32
	Blend       bool
	DepthTest   bool
	Textures    map[int32]uint32
}

// Device is a fake gpu.Device. Uniforms are parsed from shader sources so
// programs report the same active uniforms a driver would (minus stripping).
type Device struct {
	// CompileErrors makes CompileShader fail for a stage with the given log.
	CompileErrors map[gpu.ShaderStage]string
	// LinkError makes LinkProgram fail with the given log when non-empty.
	LinkError string
	// FramebufferError makes CreateFramebuffer fail.
	FramebufferError error

	Draws     []Draw
	Viewports [][2]int
	Clears    int
	Releases  int

	next         uint32
	shaders      map[uint32]string
	programs     map[uint32][]gpu.UniformInfo
	meshes       map[uint32]int // vao -> buffers (vao, vbo, ebo)
	textures     map[uint32]struct{}
	framebuffers map[uint32]uint32
	values       map[uint32]map[int32]any

	current     uint32
	framebuffer uint32
	blend       bool
	depth       bool
	bound       map[int32]uint32
}

// NewDevice returns an empty fake device.
func NewDevice() *Device {
	return &Device{
		shaders:      make(map[uint32]string),
		programs:     make(map[uint32][]gpu.UniformInfo),
		meshes:       make(map[uint32]int),
		textures:     make(map[uint32]struct{}),
		framebuffers: make(map[uint32]uint32),
		values:       make(map[uint32]map[int32]any),
		bound:        make(map[int32]uint32),
	}
}

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

// Live returns the number of objects that were created and not yet deleted.
// A mesh counts as three (vertex array, vertex buffer, index buffer), a
// framebuffer as two (framebuffer, color texture).
func (d *Device) Live() int {
	n := len(d.shaders) + len(d.programs) + len(d.textures)
	for _, c := range d.meshes {
		n += c
	}
	return n + 2*len(d.framebuffers)
}

// Framebuffers returns the number of live framebuffers.
func (d *Device) Framebuffers() int { return len(d.framebuffers) }

// LastViewport returns the most recent viewport, or zero if none was set.
func (d *Device) LastViewport() (w, h int) {
	if len(d.Viewports) == 0 {
		return 0, 0
	}
	v := d.Viewports[len(d.Viewports)-1]
	return v[0], v[1]
}

// Uniform returns the last value written to a named uniform of program.
func (d *Device) Uniform(program uint32, name string) (any, bool) {
	for _, u := range d.programs[program] {
		if u.Name == name {
			v, ok := d.values[program][u.Location]
			return v, ok
		}
	}
	return nil, false
}

func (d *Device) CompileShader(stage gpu.ShaderStage, source string) (uint32, string, bool) {
	id := d.id()
	d.shaders[id] = source
	if log, ok := d.CompileErrors[stage]; ok {
		return id, log, false
	}
	return id, "", true
}

func (d *Device) DeleteShader(id uint32) { delete(d.shaders, id) }

func (d *Device) LinkProgram(vertex, fragment uint32) (uint32, string, bool) {
	id := d.id()
	var uniforms []gpu.UniformInfo
	seen := map[string]bool{}
	for _, sh := range []uint32{vertex, fragment} {
		for _, m := range uniformDecl.FindAllStringSubmatch(d.shaders[sh], -1) {
			if seen[m[2]] {
				continue
			}
			seen[m[2]] = true
			uniforms = append(uniforms, gpu.UniformInfo{
				Name:     m[2],
				Kind:     glslKinds[m[1]],
				Location: int32(len(uniforms)),
			})
		}
	}
	d.programs[id] = uniforms
	if d.LinkError != "" {
		return id, d.LinkError, false
	}
	return id, "", true
}

func (d *Device) DeleteProgram(id uint32) {
	delete(d.programs, id)
	delete(d.values, id)
}

func (d *Device) ActiveUniforms(program uint32) []gpu.UniformInfo {
	return append([]gpu.UniformInfo(nil), d.programs[program]...)
}

func (d *Device) UseProgram(program uint32) { d.current = program }

func (d *Device) set(location int32, v any) {
	m := d.values[d.current]
	if m == nil {
		m = make(map[int32]any)
		d.values[d.current] = m
	}
	m[location] = v
}

func (d *Device) SetFloat(location int32, v float32)   { d.set(location, v) }
func (d *Device) SetInt(location int32, v int32)       { d.set(location, v) }
func (d *Device) SetVec2(location int32, v mgl32.Vec2) { d.set(location, v) }
func (d *Device) SetVec3(location int32, v mgl32.Vec3) { d.set(location, v) }
func (d *Device) SetMat4(location int32, v mgl32.Mat4) { d.set(location, v) }

func (d *Device) CreateMesh(vertices []float32, indices []uint32, layout []gpu.Attribute) (uint32, uint32, uint32) {
	vao, vbo, ebo := d.id(), d.id(), d.id()
	d.meshes[vao] = 3
	return vao, vbo, ebo
}

func (d *Device) DeleteMesh(vao, vbo, ebo uint32) { delete(d.meshes, vao) }

func (d *Device) DrawMesh(vao uint32, indexCount int32) {
	tex := make(map[int32]uint32, len(d.bound))
	for k, v := range d.bound {
		tex[k] = v
	}
	d.Draws = append(d.Draws, Draw{
		Program:     d.current,
		VAO:         vao,
		Count:       indexCount,
		Framebuffer: d.framebuffer,
		Blend:       d.blend,
		DepthTest:   d.depth,
		Textures:    tex,
	})
}

func (d *Device) CreateTexture(img *image.RGBA, filter gpu.Filter) uint32 {
	id := d.id()
	d.textures[id] = struct{}{}
	return id
}

func (d *Device) DeleteTexture(id uint32) { delete(d.textures, id) }

func (d *Device) BindTexture(unit int32, id uint32) {
	if id == 0 {
		delete(d.bound, unit)
		return
	}
	d.bound[unit] = id
}

func (d *Device) CreateFramebuffer(w, h int) (uint32, uint32, error) {
	if d.FramebufferError != nil {
		return 0, 0, d.FramebufferError
	}
	if w <= 0 || h <= 0 {
		return 0, 0, errors.New("gputest: zero-area framebuffer")
	}
	fbo, tex := d.id(), d.id()
	d.framebuffers[fbo] = tex
	return fbo, tex, nil
}

func (d *Device) DeleteFramebuffer(fbo, texture uint32) { delete(d.framebuffers, fbo) }

func (d *Device) BindFramebuffer(fbo uint32) { d.framebuffer = fbo }

func (d *Device) Viewport(w, h int) { d.Viewports = append(d.Viewports, [2]int{w, h}) }

func (d *Device) Clear(r, g, b, a float32) { d.Clears++ }

func (d *Device) SetBlend(enabled bool) { d.blend = enabled }

func (d *Device) SetDepthTest(enabled bool) { d.depth = enabled }

func (d *Device) Release() { d.Releases++ }

// Backend hands out fake devices and counts acquisitions.
type Backend struct {
	// Err makes Acquire fail.
	Err error
	// Configure, when set, runs on every new device before it is returned.
	Configure func(*Device)

	Devices []*Device
}

// Acquire returns a fresh Device, or Err.
func (b *Backend) Acquire() (gpu.Device, error) {
	if b.Err != nil {
		return nil, b.Err
	}
	d := NewDevice()
	if b.Configure != nil {
		b.Configure(d)
	}
	b.Devices = append(b.Devices, d)
	return d, nil
}

// Acquired returns the number of successful Acquire calls.
func (b *Backend) Acquired() int { return len(b.Devices) }

// Released returns the total number of Release calls across devices.
func (b *Backend) Released() int {
	n := 0
	for _, d := range b.Devices {
		n += d.Releases
	}
	return n
}

// Last returns the most recently acquired device, or nil.
func (b *Backend) Last() *Device {
	if len(b.Devices) == 0 {
		return nil
	}
	return b.Devices[len(b.Devices)-1]
}
