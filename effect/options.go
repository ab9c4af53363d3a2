package effect

import (
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sheen/colorfield"
	"github.com/pthm-cable/sheen/config"
	"github.com/pthm-cable/sheen/gpu"
	"github.com/pthm-cable/sheen/noise"
	"github.com/pthm-cable/sheen/pointer"
	"github.com/pthm-cable/sheen/renderer"
	"github.com/pthm-cable/sheen/telemetry"
)

// Options configure one Instance.
type Options struct {
	Backend gpu.Backend
	Logger  *slog.Logger
	Perf    *telemetry.PerfCollector
	// Now overrides the frame clock source.
	Now func() time.Time

	Smoothing       float32
	Background      noise.Params
	ResolutionScale float32
	Label           renderer.LabelConfig
	ColorField      colorfield.Params
}

// DefaultOptions returns the built-in look on backend.
func DefaultOptions(backend gpu.Backend) Options {
	return Options{
		Backend:         backend,
		Smoothing:       pointer.DefaultSmoothing,
		Background:      noise.DefaultParams(),
		ResolutionScale: 1,
		ColorField:      colorfield.DefaultParams(),
		Label: renderer.LabelConfig{
			Text:       "sheen",
			TextScale:  8,
			Width:      6,
			SegmentsX:  160,
			SegmentsY:  40,
			Radius:     3,
			Amplitude:  0.45,
			HitWidth:   200,
			HitHeight:  200,
			Camera:     r3.Vec{Z: 8},
			FovY:       45,
			ShadowDrop: mgl32.Vec3{0.08, -0.12, -0.05},
			Shadow:     0.45,
		},
	}
}

// OptionsFromConfig maps a loaded configuration onto Options.
func OptionsFromConfig(cfg *config.Config, backend gpu.Backend) Options {
	bg := cfg.Background
	d := cfg.Displacement
	cf := cfg.ColorField
	return Options{
		Backend:   backend,
		Smoothing: cfg.Derived.Smoothing32,
		Background: noise.Params{
			Scale:           float32(bg.Scale),
			DriftX:          float32(bg.DriftX),
			DriftY:          float32(bg.DriftY),
			PointerStrength: float32(bg.PointerStrength),
			PointerFalloff:  float32(bg.PointerFalloff),
			ColorA:          rgb(bg.ColorA),
			ColorB:          rgb(bg.ColorB),
			ColorC:          rgb(bg.ColorC),
			Specular:        float32(bg.Specular),
			Highlight:       float32(bg.Highlight),
			Vignette:        float32(bg.Vignette),
		},
		ResolutionScale: float32(bg.ResolutionScale),
		Label: renderer.LabelConfig{
			Text:       d.Label,
			TextScale:  d.LabelScale,
			Width:      float32(d.Width),
			SegmentsX:  d.SegmentsX,
			SegmentsY:  d.SegmentsY,
			Radius:     float32(d.Radius),
			Amplitude:  float32(d.Amplitude),
			HitWidth:   d.PlaneWidth,
			HitHeight:  d.PlaneHeight,
			Camera:     r3.Vec{Z: d.CameraZ},
			FovY:       d.FovY,
			ShadowDrop: mgl32.Vec3(rgb(d.ShadowOffset)),
			Shadow:     float32(d.ShadowOpacity),
		},
		ColorField: colorfield.Params{
			Size:      cf.Size,
			Thickness: float32(cf.Thickness),
			FilmIndex: float32(cf.FilmIndex),
			BaseIndex: float32(cf.BaseIndex),
		},
	}
}

func rgb(v [3]float64) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}
