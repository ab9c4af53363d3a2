package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sheen/camera"
	"github.com/pthm-cable/sheen/gpu"
)

// FocusPoint is the last world-space hit of the pointer ray with the hit
// plane. Valid stays false until the first hit.
type FocusPoint struct {
	Position r3.Vec
	Valid    bool
}

// FocusTracker raycasts the pointer against a bounded invisible plane.
type FocusTracker struct {
	cam   *camera.Camera
	plane camera.Plane
	focus FocusPoint
}

// NewFocusTracker starts with the focus at the plane centre.
func NewFocusTracker(cam *camera.Camera, plane camera.Plane) *FocusTracker {
	return &FocusTracker{
		cam:   cam,
		plane: plane,
		focus: FocusPoint{Position: plane.Center},
	}
}

// Update casts a ray through ndc. A hit replaces the focus point; a miss
// keeps the previous one. It reports whether the ray hit.
func (f *FocusTracker) Update(ndc mgl32.Vec2) (FocusPoint, bool) {
	ray := f.cam.Ray(float64(ndc[0]), float64(ndc[1]))
	hit, ok := f.plane.Intersect(ray)
	if ok {
		f.focus = FocusPoint{Position: hit, Valid: true}
	}
	return f.focus, ok
}

// Focus returns the current focus point.
func (f *FocusTracker) Focus() FocusPoint { return f.focus }

// Surface is the label geometry and mask shared by the primary and shadow
// stages.
type Surface struct {
	mesh  *gpu.Mesh
	label *gpu.Texture
}

// NewSurface uploads a segmented width×height plane and the label mask.
func NewSurface(host *gpu.Host, label *image.RGBA, width, height float32, segX, segY int) (*Surface, error) {
	vertices, indices := GridPlane(width, height, segX, segY)
	mesh, err := host.NewMesh(vertices, indices, surfaceLayout...)
	if err != nil {
		return nil, fmt.Errorf("surface mesh: %w", err)
	}
	tex, err := host.NewTexture(label, gpu.FilterLinear)
	if err != nil {
		return nil, fmt.Errorf("surface label: %w", err)
	}
	return &Surface{mesh: mesh, label: tex}, nil
}

// View is the per-frame camera and focus state uploaded to both stages.
type View struct {
	ViewProjection mgl32.Mat4
	Eye            mgl32.Vec3
	Focus          FocusPoint
	Radius         float32
	Amplitude      float32
}

type surfaceUniforms struct {
	Model          mgl32.Mat4  `uniform:"model"`
	ViewProjection mgl32.Mat4  `uniform:"viewProjection"`
	Eye            mgl32.Vec3  `uniform:"eye"`
	Focus          mgl32.Vec3  `uniform:"focus"`
	Radius         float32     `uniform:"radius"`
	Amplitude      float32     `uniform:"amplitude"`
	Opacity        float32     `uniform:"opacity"`
	Label          gpu.Sampler `uniform:"label"`
	ColorField     gpu.Sampler `uniform:"colorField"`
}

const (
	labelUnit      gpu.Sampler = 0
	colorFieldUnit gpu.Sampler = 1
)

// DisplacementStage draws a Surface bent around the focus point. The shadow
// variant stays flat and fades its alpha where the primary surface lifts.
type DisplacementStage struct {
	ShadowVariant bool
	Model         mgl32.Mat4
	Opacity       float32

	host     *gpu.Host
	program  *gpu.Program
	binding  *gpu.UniformBinding
	uniforms surfaceUniforms
}

// NewDisplacementStage compiles the surface program, with the shadow branch
// enabled when shadow is set.
func NewDisplacementStage(host *gpu.Host, shadow bool) (*DisplacementStage, error) {
	s := &DisplacementStage{
		ShadowVariant: shadow,
		Model:         mgl32.Ident4(),
		Opacity:       1,
		host:          host,
	}
	var defines []string
	name := "surface"
	if shadow {
		defines = append(defines, ShadowDefine)
		name = "shadow"
	}

	var err error
	if s.program, err = host.BuildProgram(surfaceVS, surfaceFS, defines...); err != nil {
		return nil, fmt.Errorf("%s program: %w", name, err)
	}
	if s.binding, err = host.BindUniforms(s.program, &s.uniforms); err != nil {
		return nil, fmt.Errorf("%s program: %w", name, err)
	}
	return s, nil
}

// Draw renders surf for v. colorField may be nil for the shadow variant.
func (s *DisplacementStage) Draw(surf *Surface, colorField *gpu.Texture, v View) error {
	radius := v.Radius
	if !v.Focus.Valid {
		radius = 0
	}
	s.uniforms = surfaceUniforms{
		Model:          s.Model,
		ViewProjection: v.ViewProjection,
		Eye:            v.Eye,
		Focus:          vec3(v.Focus.Position),
		Radius:         radius,
		Amplitude:      v.Amplitude,
		Opacity:        s.Opacity,
		Label:          labelUnit,
		ColorField:     colorFieldUnit,
	}
	if err := s.host.Upload(s.binding, &s.uniforms); err != nil {
		return err
	}

	units := []gpu.TextureUnit{{Unit: labelUnit, Texture: surf.label}}
	if colorField != nil {
		units = append(units, gpu.TextureUnit{Unit: colorFieldUnit, Texture: colorField})
	}
	return s.host.Draw(s.program, surf.mesh, units...)
}

func vec3(v r3.Vec) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}
