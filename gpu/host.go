package gpu

import (
	"fmt"
	"image"
	"log/slog"
)

// Shader is a compiled pipeline stage. It is consumed by Host.Link.
type Shader struct {
	id    uint32
	stage ShaderStage
}

// Stage returns the pipeline stage the shader was compiled for.
func (s *Shader) Stage() ShaderStage { return s.stage }

// Program is a linked shader program with its active uniform table.
type Program struct {
	id       uint32
	uniforms map[string]UniformInfo
}

// Uniform looks up an active uniform by name.
func (p *Program) Uniform(name string) (UniformInfo, bool) {
	u, ok := p.uniforms[name]
	return u, ok
}

// Mesh is an indexed triangle list in GPU memory.
type Mesh struct {
	vao, vbo, ebo uint32
	count         int32
}

// IndexCount returns the number of indices drawn per call.
func (m *Mesh) IndexCount() int32 { return m.count }

// Texture is a 2D RGBA texture.
type Texture struct {
	id   uint32
	w, h int
}

// Size returns the texture dimensions in texels.
func (t *Texture) Size() (w, h int) { return t.w, t.h }

// TextureUnit binds a texture to a sampler unit for one draw.
type TextureUnit struct {
	Unit    Sampler
	Texture *Texture
}

// Host is the arena that owns one device context and every object created on
// it. It is not safe for concurrent use; all calls happen on the frame loop.
type Host struct {
	dev Device
	log *slog.Logger

	shaders  map[*Shader]struct{}
	programs map[*Program]struct{}
	meshes   map[*Mesh]struct{}
	textures map[*Texture]struct{}
	targets  map[*RenderTarget]struct{}

	width, height   int
	resizeListeners []func(w, h int)

	disposed bool
}

// Acquire obtains a device from backend and wraps it in a new Host. Any backend
// failure is reported as ErrContextUnavailable.
func Acquire(backend Backend, log *slog.Logger) (*Host, error) {
	if log == nil {
		log = slog.Default()
	}
	dev, err := backend.Acquire()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContextUnavailable, err)
	}
	if dev == nil {
		return nil, ErrContextUnavailable
	}
	log.Debug("gpu context acquired")
	return NewHost(dev, log), nil
}

// NewHost wraps an already acquired device.
func NewHost(dev Device, log *slog.Logger) *Host {
	if log == nil {
		log = slog.Default()
	}
	return &Host{
		dev:      dev,
		log:      log,
		shaders:  make(map[*Shader]struct{}),
		programs: make(map[*Program]struct{}),
		meshes:   make(map[*Mesh]struct{}),
		textures: make(map[*Texture]struct{}),
		targets:  make(map[*RenderTarget]struct{}),
	}
}

// Disposed reports whether Dispose has run.
func (h *Host) Disposed() bool { return h.disposed }

// Size returns the current viewport size.
func (h *Host) Size() (int, int) { return h.width, h.height }

// Live returns the number of GPU objects currently owned by the host.
func (h *Host) Live() int {
	return len(h.shaders) + len(h.programs) + len(h.meshes) + len(h.textures) + len(h.targets)
}

// Compile compiles source for stage.
func (h *Host) Compile(stage ShaderStage, source string) (*Shader, error) {
	if h.disposed {
		return nil, ErrDisposed
	}
	id, log, ok := h.dev.CompileShader(stage, source)
	if !ok {
		if id != 0 {
			h.dev.DeleteShader(id)
		}
		return nil, &ShaderCompileError{Stage: stage, Log: log}
	}
	s := &Shader{id: id, stage: stage}
	h.shaders[s] = struct{}{}
	return s, nil
}

// Link links a vertex and a fragment shader. Both shaders are released
// whether or not linking succeeds.
func (h *Host) Link(vertex, fragment *Shader) (*Program, error) {
	if h.disposed {
		return nil, ErrDisposed
	}
	if vertex == nil || fragment == nil || vertex.stage != StageVertex || fragment.stage != StageFragment {
		return nil, &ProgramLinkError{Log: "expected one vertex and one fragment shader"}
	}
	defer h.releaseShader(vertex)
	defer h.releaseShader(fragment)

	id, log, ok := h.dev.LinkProgram(vertex.id, fragment.id)
	if !ok {
		if id != 0 {
			h.dev.DeleteProgram(id)
		}
		return nil, &ProgramLinkError{Log: log}
	}

	p := &Program{id: id, uniforms: make(map[string]UniformInfo)}
	for _, u := range h.dev.ActiveUniforms(id) {
		p.uniforms[u.Name] = u
	}
	h.programs[p] = struct{}{}
	return p, nil
}

// BuildProgram compiles and links a vertex/fragment pair. Defines are injected
// after the #version line of both sources.
func (h *Host) BuildProgram(vertexSrc, fragmentSrc string, defines ...string) (*Program, error) {
	vs, err := h.Compile(StageVertex, Preprocess(vertexSrc, defines...))
	if err != nil {
		return nil, err
	}
	fs, err := h.Compile(StageFragment, Preprocess(fragmentSrc, defines...))
	if err != nil {
		h.releaseShader(vs)
		return nil, err
	}
	return h.Link(vs, fs)
}

func (h *Host) releaseShader(s *Shader) {
	if _, ok := h.shaders[s]; !ok {
		return
	}
	h.dev.DeleteShader(s.id)
	delete(h.shaders, s)
}

// NewMesh uploads an interleaved vertex buffer and its index buffer.
func (h *Host) NewMesh(vertices []float32, indices []uint32, layout ...Attribute) (*Mesh, error) {
	if h.disposed {
		return nil, ErrDisposed
	}
	if len(indices) == 0 || len(vertices) == 0 {
		return nil, fmt.Errorf("gpu: empty mesh")
	}
	vao, vbo, ebo := h.dev.CreateMesh(vertices, indices, layout)
	m := &Mesh{vao: vao, vbo: vbo, ebo: ebo, count: int32(len(indices))}
	h.meshes[m] = struct{}{}
	return m, nil
}

// NewTexture uploads img as an immutable texture.
func (h *Host) NewTexture(img *image.RGBA, filter Filter) (*Texture, error) {
	if h.disposed {
		return nil, ErrDisposed
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("gpu: empty texture")
	}
	t := &Texture{id: h.dev.CreateTexture(img, filter), w: b.Dx(), h: b.Dy()}
	h.textures[t] = struct{}{}
	return t, nil
}

// OnResize registers fn to run after every effective resize.
func (h *Host) OnResize(fn func(w, h int)) {
	h.resizeListeners = append(h.resizeListeners, fn)
}

// Resize reallocates viewport-sized render targets and sets the viewport.
// Unchanged sizes and zero-area sizes are no-ops. The new size is committed
// only once every target is allocated, so a failed resize can be retried.
func (h *Host) Resize(w, height int) error {
	if h.disposed || w <= 0 || height <= 0 {
		return nil
	}
	if w == h.width && height == h.height {
		return nil
	}

	for rt := range h.targets {
		if err := h.allocateTarget(rt, w, height); err != nil {
			return err
		}
	}
	h.width, h.height = w, height
	h.dev.Viewport(w, height)

	for _, fn := range h.resizeListeners {
		fn(w, height)
	}
	h.log.Debug("gpu viewport resized", "width", w, "height", height)
	return nil
}

// Clear clears the currently bound framebuffer.
func (h *Host) Clear(r, g, b, a float32) error {
	if h.disposed {
		return ErrDisposed
	}
	h.dev.Clear(r, g, b, a)
	return nil
}

// SetBlend toggles alpha blending.
func (h *Host) SetBlend(enabled bool) error {
	if h.disposed {
		return ErrDisposed
	}
	h.dev.SetBlend(enabled)
	return nil
}

// SetDepthTest toggles depth testing.
func (h *Host) SetDepthTest(enabled bool) error {
	if h.disposed {
		return ErrDisposed
	}
	h.dev.SetDepthTest(enabled)
	return nil
}

// Draw issues one indexed draw of m with p. Uniforms must have been uploaded
// with Upload beforehand.
func (h *Host) Draw(p *Program, m *Mesh, textures ...TextureUnit) error {
	if h.disposed {
		return ErrDisposed
	}
	if _, ok := h.programs[p]; !ok {
		return fmt.Errorf("gpu: draw with unknown program")
	}
	if _, ok := h.meshes[m]; !ok {
		return fmt.Errorf("gpu: draw with unknown mesh")
	}
	h.dev.UseProgram(p.id)
	for _, tu := range textures {
		h.dev.BindTexture(int32(tu.Unit), tu.Texture.id)
	}
	h.dev.DrawMesh(m.vao, m.count)
	return nil
}

// EndFrame restores the default state expected by the surrounding 2D renderer.
func (h *Host) EndFrame() {
	if h.disposed {
		return
	}
	h.dev.BindFramebuffer(0)
	h.dev.UseProgram(0)
	h.dev.BindTexture(0, 0)
	h.dev.SetDepthTest(false)
	h.dev.SetBlend(true)
}

// Dispose releases every owned object and then the context. It is safe to call
// more than once.
func (h *Host) Dispose() {
	if h.disposed {
		return
	}
	h.disposed = true

	released := h.Live()
	for rt := range h.targets {
		h.freeTarget(rt)
	}
	for t := range h.textures {
		h.dev.DeleteTexture(t.id)
	}
	for m := range h.meshes {
		h.dev.DeleteMesh(m.vao, m.vbo, m.ebo)
	}
	for p := range h.programs {
		h.dev.DeleteProgram(p.id)
	}
	for s := range h.shaders {
		h.dev.DeleteShader(s.id)
	}
	clear(h.targets)
	clear(h.textures)
	clear(h.meshes)
	clear(h.programs)
	clear(h.shaders)
	h.resizeListeners = nil

	h.dev.Release()
	h.log.Debug("gpu host disposed", "released", released)
}
