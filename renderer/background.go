package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/sheen/gpu"
	"github.com/pthm-cable/sheen/noise"
)

// Frame is the per-tick input shared by the stages.
type Frame struct {
	Time    float32    // elapsed seconds
	Aspect  float32    // surface width / height
	Pointer mgl32.Vec2 // smoothed pointer, NDC
	Hover   float32    // hover intensity in [0,1]
}

type backgroundUniforms struct {
	Time    float32    `uniform:"time"`
	Aspect  float32    `uniform:"aspect"`
	Pointer mgl32.Vec2 `uniform:"pointer"`
	Hover   float32    `uniform:"hover"`

	Scale           float32    `uniform:"scale"`
	Drift           mgl32.Vec2 `uniform:"drift"`
	PointerStrength float32    `uniform:"pointerStrength"`
	PointerFalloff  float32    `uniform:"pointerFalloff"`
	ColorA          mgl32.Vec3 `uniform:"colorA"`
	ColorB          mgl32.Vec3 `uniform:"colorB"`
	ColorC          mgl32.Vec3 `uniform:"colorC"`
	Specular        float32    `uniform:"specular"`
	Highlight       float32    `uniform:"highlight"`
	Vignette        float32    `uniform:"vignette"`
}

type blitUniforms struct {
	Source gpu.Sampler `uniform:"source"`
}

// BackgroundRenderer draws the domain-warped noise field over the whole
// surface. With a resolution scale below 1 the field is rendered into an
// offscreen target and stretched over the surface.
type BackgroundRenderer struct {
	host *gpu.Host

	program  *gpu.Program
	binding  *gpu.UniformBinding
	uniforms backgroundUniforms
	quad     *gpu.Mesh

	target      *gpu.RenderTarget
	blit        *gpu.Program
	blitBinding *gpu.UniformBinding
}

// NewBackgroundRenderer compiles the background program and uploads the
// quad. Resolution scales outside (0,1) render at full size.
func NewBackgroundRenderer(host *gpu.Host, params noise.Params, resolutionScale float32) (*BackgroundRenderer, error) {
	b := &BackgroundRenderer{host: host}
	b.uniforms = backgroundUniforms{
		Scale:           params.Scale,
		Drift:           mgl32.Vec2{params.DriftX, params.DriftY},
		PointerStrength: params.PointerStrength,
		PointerFalloff:  params.PointerFalloff,
		ColorA:          params.ColorA,
		ColorB:          params.ColorB,
		ColorC:          params.ColorC,
		Specular:        params.Specular,
		Highlight:       params.Highlight,
		Vignette:        params.Vignette,
		Aspect:          1,
	}

	var err error
	if b.program, err = host.BuildProgram(quadVS, backgroundFS); err != nil {
		return nil, fmt.Errorf("background program: %w", err)
	}
	if b.binding, err = host.BindUniforms(b.program, &b.uniforms); err != nil {
		return nil, fmt.Errorf("background program: %w", err)
	}
	vertices, indices := FullscreenQuad()
	if b.quad, err = host.NewMesh(vertices, indices, quadLayout...); err != nil {
		return nil, err
	}

	if resolutionScale > 0 && resolutionScale < 1 {
		if b.target, err = host.NewRenderTarget(resolutionScale); err != nil {
			return nil, err
		}
		if b.blit, err = host.BuildProgram(quadVS, blitFS); err != nil {
			return nil, fmt.Errorf("blit program: %w", err)
		}
		if b.blitBinding, err = host.BindUniforms(b.blit, &blitUniforms{}); err != nil {
			return nil, fmt.Errorf("blit program: %w", err)
		}
	}
	return b, nil
}

// Offscreen reports whether the field is rendered at reduced resolution.
func (b *BackgroundRenderer) Offscreen() bool { return b.target != nil }

// Draw renders the field for f.
func (b *BackgroundRenderer) Draw(f Frame) error {
	b.uniforms.Time = f.Time
	b.uniforms.Aspect = f.Aspect
	b.uniforms.Pointer = f.Pointer
	b.uniforms.Hover = f.Hover

	if err := b.host.SetBlend(false); err != nil {
		return err
	}
	if err := b.host.SetDepthTest(false); err != nil {
		return err
	}

	if b.target != nil {
		if w, _ := b.target.Size(); w == 0 {
			return nil
		}
		if err := b.host.BindTarget(b.target); err != nil {
			return err
		}
	}
	if err := b.host.Upload(b.binding, &b.uniforms); err != nil {
		return err
	}
	if err := b.host.Draw(b.program, b.quad); err != nil {
		return err
	}
	if b.target == nil {
		return nil
	}

	if err := b.host.BindTarget(nil); err != nil {
		return err
	}
	if err := b.host.Upload(b.blitBinding, &blitUniforms{Source: 0}); err != nil {
		return err
	}
	return b.host.Draw(b.blit, b.quad, gpu.TextureUnit{Unit: 0, Texture: b.target.Texture()})
}
