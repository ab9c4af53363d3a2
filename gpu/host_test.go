package gpu_test

import (
	"errors"
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sheen/gpu"
	"github.com/pthm-cable/sheen/gpu/gputest"
)

const testVS = `#version 330 core
layout(location = 0) in vec3 position;
uniform mat4 mvp;
void main() { gl_Position = mvp * vec4(position, 1.0); }
`

const testFS = `#version 330 core
uniform float time;
uniform vec2 pointer;
uniform sampler2D lut;
out vec4 color;
void main() { color = texture(lut, pointer) * time; }
`

type testUniforms struct {
	MVP     mgl32.Mat4  `uniform:"mvp"`
	Time    float32     `uniform:"time"`
	Pointer mgl32.Vec2  `uniform:"pointer"`
	LUT     gpu.Sampler `uniform:"lut"`
	Unused  float32     `uniform:"unused"`
	Other   string
}

func acquire(t *testing.T) (*gpu.Host, *gputest.Backend) {
	t.Helper()
	b := &gputest.Backend{}
	h, err := gpu.Acquire(b, nil)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	return h, b
}

func TestAcquireFailureIsContextUnavailable(t *testing.T) {
	b := &gputest.Backend{Err: errors.New("no webgl")}
	h, err := gpu.Acquire(b, nil)
	if h != nil {
		t.Error("expected nil host")
	}
	if !errors.Is(err, gpu.ErrContextUnavailable) {
		t.Errorf("err = %v, want ErrContextUnavailable", err)
	}
}

func TestCompileErrorCarriesLog(t *testing.T) {
	h, b := acquire(t)
	dev := b.Last()
	dev.CompileErrors = map[gpu.ShaderStage]string{gpu.StageFragment: "0:3: syntax error\n"}

	_, err := h.BuildProgram(testVS, testFS)
	var ce *gpu.ShaderCompileError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want ShaderCompileError", err)
	}
	if ce.Stage != gpu.StageFragment || ce.Log != "0:3: syntax error\n" {
		t.Errorf("got stage %v log %q", ce.Stage, ce.Log)
	}
	if h.Live() != 0 || dev.Live() != 0 {
		t.Errorf("live after failed build: host %d device %d", h.Live(), dev.Live())
	}
}

func TestLinkReleasesStages(t *testing.T) {
	for _, fail := range []bool{false, true} {
		h, b := acquire(t)
		dev := b.Last()
		if fail {
			dev.LinkError = "missing main"
		}
		p, err := h.BuildProgram(testVS, testFS)
		if fail {
			var le *gpu.ProgramLinkError
			if !errors.As(err, &le) || le.Log != "missing main" {
				t.Errorf("err = %v, want ProgramLinkError", err)
			}
			if dev.Live() != 0 {
				t.Errorf("device live = %d after failed link", dev.Live())
			}
			continue
		}
		if err != nil || p == nil {
			t.Fatalf("BuildProgram: %v", err)
		}
		if h.Live() != 1 || dev.Live() != 1 {
			t.Errorf("live = host %d device %d, want only the program", h.Live(), dev.Live())
		}
	}
}

func TestBindUniformsAndUpload(t *testing.T) {
	h, b := acquire(t)
	p, err := h.BuildProgram(testVS, testFS)
	if err != nil {
		t.Fatal(err)
	}
	u := testUniforms{Time: 1.5, Pointer: mgl32.Vec2{0.25, -0.5}, LUT: 2, MVP: mgl32.Ident4()}
	binding, err := h.BindUniforms(p, &u)
	if err != nil {
		t.Fatalf("BindUniforms: %v", err)
	}
	if err := h.Upload(binding, &u); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	dev := b.Last()
	tests := []struct {
		name string
		want any
	}{
		{"time", float32(1.5)},
		{"pointer", mgl32.Vec2{0.25, -0.5}},
		{"lut", int32(2)},
		{"mvp", mgl32.Ident4()},
	}
	prog := programID(t, h, dev, p)
	for _, tt := range tests {
		got, ok := dev.Uniform(prog, tt.name)
		if !ok || got != tt.want {
			t.Errorf("uniform %s = %v (%v), want %v", tt.name, got, ok, tt.want)
		}
	}
}

func TestBindUniformsRejectsMismatch(t *testing.T) {
	h, _ := acquire(t)
	p, err := h.BuildProgram(testVS, testFS)
	if err != nil {
		t.Fatal(err)
	}

	type missing struct {
		MVP  mgl32.Mat4 `uniform:"mvp"`
		Time float32    `uniform:"time"`
	}
	type wrongKind struct {
		MVP     mgl32.Mat4  `uniform:"mvp"`
		Time    int32       `uniform:"time"`
		Pointer mgl32.Vec2  `uniform:"pointer"`
		LUT     gpu.Sampler `uniform:"lut"`
	}
	type badType struct {
		Time float64 `uniform:"time"`
	}

	for name, u := range map[string]any{
		"missing":   &missing{},
		"wrongKind": &wrongKind{},
		"badType":   &badType{},
	} {
		_, err := h.BindUniforms(p, u)
		var me *gpu.UniformMismatchError
		if !errors.As(err, &me) {
			t.Errorf("%s: err = %v, want UniformMismatchError", name, err)
		}
	}

	if _, err := h.BindUniforms(p, testUniforms{}); err == nil {
		t.Error("expected error for non-pointer")
	}
}

func TestDrawRecordsState(t *testing.T) {
	h, b := acquire(t)
	dev := b.Last()
	p, err := h.BuildProgram(testVS, testFS)
	if err != nil {
		t.Fatal(err)
	}
	m, err := h.NewMesh([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, []uint32{0, 1, 2}, gpu.Attribute{Location: 0, Size: 3})
	if err != nil {
		t.Fatal(err)
	}
	tex, err := h.NewTexture(image.NewRGBA(image.Rect(0, 0, 4, 4)), gpu.FilterLinear)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Draw(p, m, gpu.TextureUnit{Unit: 1, Texture: tex}); err != nil {
		t.Fatal(err)
	}
	if len(dev.Draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(dev.Draws))
	}
	d := dev.Draws[0]
	if d.Count != 3 {
		t.Errorf("count = %d, want 3", d.Count)
	}
	if d.Textures[1] == 0 {
		t.Error("texture unit 1 not bound")
	}
}

func TestResize(t *testing.T) {
	h, b := acquire(t)
	dev := b.Last()
	var notified [][2]int
	h.OnResize(func(w, hh int) { notified = append(notified, [2]int{w, hh}) })

	if err := h.Resize(800, 600); err != nil {
		t.Fatal(err)
	}
	rt, err := h.NewRenderTarget(0.5)
	if err != nil {
		t.Fatal(err)
	}
	if w, hh := rt.Size(); w != 400 || hh != 300 {
		t.Errorf("target = %dx%d, want 400x300", w, hh)
	}

	// Unchanged and zero-area sizes are ignored.
	_ = h.Resize(800, 600)
	_ = h.Resize(0, 300)
	_ = h.Resize(400, 0)
	if len(notified) != 1 {
		t.Errorf("notified %d times, want 1", len(notified))
	}

	if err := h.Resize(400, 300); err != nil {
		t.Fatal(err)
	}
	if w, hh := dev.LastViewport(); w != 400 || hh != 300 {
		t.Errorf("viewport = %dx%d, want 400x300", w, hh)
	}
	if w, hh := rt.Size(); w != 200 || hh != 150 {
		t.Errorf("target = %dx%d, want 200x150", w, hh)
	}
	if dev.Framebuffers() != 1 {
		t.Errorf("framebuffers = %d, want 1", dev.Framebuffers())
	}
	if len(notified) != 2 || notified[1] != [2]int{400, 300} {
		t.Errorf("notified = %v", notified)
	}
}

func TestRenderTargetAllocationFailure(t *testing.T) {
	h, b := acquire(t)
	b.Last().FramebufferError = errors.New("out of memory")
	_ = h.Resize(64, 64)
	if _, err := h.NewRenderTarget(1); err == nil {
		t.Error("expected allocation error")
	}
}

func TestResizeFailureCanBeRetried(t *testing.T) {
	h, b := acquire(t)
	dev := b.Last()
	var notified int
	h.OnResize(func(int, int) { notified++ })

	if err := h.Resize(800, 600); err != nil {
		t.Fatal(err)
	}
	rt, err := h.NewRenderTarget(0.5)
	if err != nil {
		t.Fatal(err)
	}

	dev.FramebufferError = errors.New("out of memory")
	if err := h.Resize(400, 300); err == nil {
		t.Fatal("expected allocation error")
	}
	if w, hh := h.Size(); w != 800 || hh != 600 {
		t.Errorf("size after failed resize = %dx%d, want 800x600", w, hh)
	}
	if w, hh := dev.LastViewport(); w != 800 || hh != 600 {
		t.Errorf("viewport after failed resize = %dx%d, want 800x600", w, hh)
	}
	if notified != 1 {
		t.Errorf("notified %d times, want 1", notified)
	}

	dev.FramebufferError = nil
	if err := h.Resize(400, 300); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if w, hh := rt.Size(); w != 200 || hh != 150 {
		t.Errorf("target after retry = %dx%d, want 200x150", w, hh)
	}
	if notified != 2 {
		t.Errorf("notified %d times after retry, want 2", notified)
	}
}

func TestDisposeIdempotent(t *testing.T) {
	h, b := acquire(t)
	dev := b.Last()
	_ = h.Resize(320, 240)
	p, _ := h.BuildProgram(testVS, testFS)
	m, _ := h.NewMesh([]float32{0, 0, 0}, []uint32{0}, gpu.Attribute{Size: 3})
	_, _ = h.NewTexture(image.NewRGBA(image.Rect(0, 0, 2, 2)), gpu.FilterNearest)
	_, _ = h.NewRenderTarget(1)
	if dev.Live() == 0 {
		t.Fatal("nothing allocated")
	}

	h.Dispose()
	h.Dispose()

	if b.Acquired() != 1 || b.Released() != 1 {
		t.Errorf("acquire/release = %d/%d, want 1/1", b.Acquired(), b.Released())
	}
	if h.Live() != 0 || dev.Live() != 0 {
		t.Errorf("live after dispose: host %d device %d", h.Live(), dev.Live())
	}

	draws := len(dev.Draws)
	if err := h.Draw(p, m); !errors.Is(err, gpu.ErrDisposed) {
		t.Errorf("Draw after dispose = %v, want ErrDisposed", err)
	}
	if _, err := h.Compile(gpu.StageVertex, testVS); !errors.Is(err, gpu.ErrDisposed) {
		t.Errorf("Compile after dispose = %v, want ErrDisposed", err)
	}
	if len(dev.Draws) != draws {
		t.Error("draw issued after dispose")
	}
}

// programID recovers the device id of p by drawing it once.
func programID(t *testing.T, h *gpu.Host, dev *gputest.Device, p *gpu.Program) uint32 {
	t.Helper()
	m, err := h.NewMesh([]float32{0, 0, 0}, []uint32{0}, gpu.Attribute{Size: 3})
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Draw(p, m); err != nil {
		t.Fatal(err)
	}
	return dev.Draws[len(dev.Draws)-1].Program
}
