// Package config provides configuration loading and access for the effects.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all effect configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	Pointer      PointerConfig      `yaml:"pointer"`
	Background   BackgroundConfig   `yaml:"background"`
	Displacement DisplacementConfig `yaml:"displacement"`
	ColorField   ColorFieldConfig   `yaml:"color_field"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width         int        `yaml:"width"`
	Height        int        `yaml:"height"`
	TargetFPS     int        `yaml:"target_fps"`
	Title         string     `yaml:"title"`
	FallbackColor [3]float64 `yaml:"fallback_color"` // drawn when the effect cannot render
}

// PointerConfig holds input smoothing.
type PointerConfig struct {
	Smoothing float64 `yaml:"smoothing"` // per-frame low-pass factor in (0,1]
}

// BackgroundConfig shapes the noise field.
type BackgroundConfig struct {
	Scale           float64    `yaml:"scale"`
	DriftX          float64    `yaml:"drift_x"`
	DriftY          float64    `yaml:"drift_y"`
	PointerStrength float64    `yaml:"pointer_strength"`
	PointerFalloff  float64    `yaml:"pointer_falloff"`
	ColorA          [3]float64 `yaml:"color_a"`
	ColorB          [3]float64 `yaml:"color_b"`
	ColorC          [3]float64 `yaml:"color_c"`
	Specular        float64    `yaml:"specular"`
	Highlight       float64    `yaml:"highlight"`
	Vignette        float64    `yaml:"vignette"`
	ResolutionScale float64    `yaml:"resolution_scale"` // 1 renders at full size
}

// DisplacementConfig holds the label surface and its camera.
type DisplacementConfig struct {
	Label         string     `yaml:"label"`
	LabelScale    int        `yaml:"label_scale"`
	Width         float64    `yaml:"width"`
	SegmentsX     int        `yaml:"segments_x"`
	SegmentsY     int        `yaml:"segments_y"`
	Radius        float64    `yaml:"radius"`
	Amplitude     float64    `yaml:"amplitude"`
	PlaneWidth    float64    `yaml:"plane_width"`
	PlaneHeight   float64    `yaml:"plane_height"`
	CameraZ       float64    `yaml:"camera_z"`
	FovY          float64    `yaml:"fov_y"`
	ShadowOffset  [3]float64 `yaml:"shadow_offset"`
	ShadowOpacity float64    `yaml:"shadow_opacity"`
}

// ColorFieldConfig holds the thin-film lookup parameters.
type ColorFieldConfig struct {
	Size      int     `yaml:"size"`
	Thickness float64 `yaml:"thickness"` // micrometres
	FilmIndex float64 `yaml:"film_index"`
	BaseIndex float64 `yaml:"base_index"`
}

// TelemetryConfig holds performance logging parameters.
type TelemetryConfig struct {
	PerfWindow      int `yaml:"perf_window"`       // frames averaged per stats window
	LogIntervalSecs int `yaml:"log_interval_secs"` // seconds between perf log lines, 0 disables
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Smoothing32   float32    // Pointer.Smoothing as float32
	FallbackRGBA  [4]float32 // Screen.FallbackColor with opaque alpha
	LogIntervalFr int        // telemetry log interval in frames
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file overwrite the defaults.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.clamp()
	cfg.computeDerived()
	return cfg, nil
}

// clamp pulls out-of-range values back into their valid ranges.
func (c *Config) clamp() {
	if c.Screen.Width < 1 {
		c.Screen.Width = 1
	}
	if c.Screen.Height < 1 {
		c.Screen.Height = 1
	}
	if c.Pointer.Smoothing <= 0 || c.Pointer.Smoothing > 1 {
		c.Pointer.Smoothing = 0.05
	}
	if c.Background.ResolutionScale <= 0 || c.Background.ResolutionScale > 1 {
		c.Background.ResolutionScale = 1
	}
	if c.Displacement.LabelScale < 1 {
		c.Displacement.LabelScale = 1
	}
	c.Displacement.SegmentsX = max(c.Displacement.SegmentsX, 1)
	c.Displacement.SegmentsY = max(c.Displacement.SegmentsY, 1)
	c.Displacement.ShadowOpacity = clampf(c.Displacement.ShadowOpacity, 0, 1)
	for i, v := range c.Screen.FallbackColor {
		c.Screen.FallbackColor[i] = clampf(v, 0, 1)
	}
	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 60
	}
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Smoothing32 = float32(c.Pointer.Smoothing)
	fc := c.Screen.FallbackColor
	c.Derived.FallbackRGBA = [4]float32{float32(fc[0]), float32(fc[1]), float32(fc[2]), 1}

	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.LogIntervalFr = c.Telemetry.LogIntervalSecs * fps
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// clampf maps NaN to lo.
func clampf(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
