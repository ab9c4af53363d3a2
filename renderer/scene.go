package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sheen/camera"
	"github.com/pthm-cable/sheen/colorfield"
	"github.com/pthm-cable/sheen/gpu"
)

// LabelConfig describes the interactive label surface.
type LabelConfig struct {
	Text       string
	TextScale  int     // bitmap upscale factor
	Width      float32 // surface width in world units; height follows the text
	SegmentsX  int
	SegmentsY  int
	Radius     float32 // influence radius around the focus point
	Amplitude  float32 // peak displacement along the normal
	HitWidth   float64 // invisible hit plane extent
	HitHeight  float64
	Camera     r3.Vec
	FovY       float64 // degrees
	ShadowDrop mgl32.Vec3
	Shadow     float32 // shadow opacity
}

// LabelScene is the pointer-reactive label: a focus tracker feeding one
// primary and one shadow DisplacementStage over a shared Surface.
type LabelScene struct {
	host    *gpu.Host
	cfg     LabelConfig
	cam     *camera.Camera
	tracker *FocusTracker

	surface    *Surface
	colorField *gpu.Texture
	primary    *DisplacementStage
	shadow     *DisplacementStage
}

// NewLabelScene builds the label geometry, uploads field as the film lookup
// and compiles both stage variants.
func NewLabelScene(host *gpu.Host, cfg LabelConfig, field *colorfield.Field) (*LabelScene, error) {
	w, h := host.Size()
	aspect := 1.0
	if w > 0 && h > 0 {
		aspect = float64(w) / float64(h)
	}
	cam := camera.New(cfg.Camera, r3.Vec{}, cfg.FovY, aspect)

	s := &LabelScene{
		host:    host,
		cfg:     cfg,
		cam:     cam,
		tracker: NewFocusTracker(cam, camera.NewPlane(r3.Vec{}, r3.Vec{Z: 1}, cfg.HitWidth, cfg.HitHeight)),
	}

	img := RenderLabel(cfg.Text, cfg.TextScale)
	b := img.Bounds()
	height := cfg.Width * float32(b.Dy()) / float32(b.Dx())

	var err error
	if s.surface, err = NewSurface(host, img, cfg.Width, height, cfg.SegmentsX, cfg.SegmentsY); err != nil {
		return nil, err
	}
	if s.colorField, err = host.NewTexture(field.Image(), gpu.FilterLinear); err != nil {
		return nil, fmt.Errorf("color field: %w", err)
	}
	if s.shadow, err = NewDisplacementStage(host, true); err != nil {
		return nil, err
	}
	s.shadow.Model = mgl32.Translate3D(cfg.ShadowDrop[0], cfg.ShadowDrop[1], cfg.ShadowDrop[2])
	s.shadow.Opacity = cfg.Shadow
	if s.primary, err = NewDisplacementStage(host, false); err != nil {
		return nil, err
	}

	host.OnResize(func(w, h int) {
		cam.Resize(float64(w), float64(h))
	})
	return s, nil
}

// Camera returns the scene camera.
func (s *LabelScene) Camera() *camera.Camera { return s.cam }

// Focus returns the current focus point.
func (s *LabelScene) Focus() FocusPoint { return s.tracker.Focus() }

// Update raycasts the smoothed pointer. It reports whether the ray hit.
func (s *LabelScene) Update(pointer mgl32.Vec2) (FocusPoint, bool) {
	return s.tracker.Update(pointer)
}

// Draw renders the shadow and then the primary surface, alpha blended.
func (s *LabelScene) Draw() error {
	v := View{
		ViewProjection: s.cam.ViewProjection(),
		Eye:            s.cam.Eye(),
		Focus:          s.tracker.Focus(),
		Radius:         s.cfg.Radius,
		Amplitude:      s.cfg.Amplitude,
	}
	if err := s.host.SetBlend(true); err != nil {
		return err
	}
	if err := s.shadow.Draw(s.surface, nil, v); err != nil {
		return fmt.Errorf("shadow: %w", err)
	}
	if err := s.primary.Draw(s.surface, s.colorField, v); err != nil {
		return fmt.Errorf("surface: %w", err)
	}
	return nil
}
