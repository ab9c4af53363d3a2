package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Screen.Width != 1280 || cfg.Screen.Height != 720 {
		t.Errorf("screen = %dx%d, want 1280x720", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Pointer.Smoothing != 0.05 {
		t.Errorf("smoothing = %v, want 0.05", cfg.Pointer.Smoothing)
	}
	if cfg.ColorField.Size != 64 || cfg.ColorField.FilmIndex != 1.33 {
		t.Errorf("color field = %+v", cfg.ColorField)
	}
	if cfg.Displacement.Radius != 3 {
		t.Errorf("radius = %v, want 3", cfg.Displacement.Radius)
	}
	if cfg.Derived.FallbackRGBA[3] != 1 {
		t.Error("fallback color should be opaque")
	}
	if cfg.Derived.LogIntervalFr != 600 {
		t.Errorf("log interval frames = %d, want 600", cfg.Derived.LogIntervalFr)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.yaml")
	user := []byte("displacement:\n  radius: 1.25\ncolor_field:\n  thickness: 0\n")
	if err := os.WriteFile(path, user, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Displacement.Radius != 1.25 {
		t.Errorf("radius = %v, want 1.25", cfg.Displacement.Radius)
	}
	if cfg.ColorField.Thickness != 0 {
		t.Errorf("thickness = %v, want 0", cfg.ColorField.Thickness)
	}
	// Untouched keys keep their defaults.
	if cfg.Displacement.Amplitude != 0.45 || cfg.Displacement.Label != "sheen" {
		t.Errorf("defaults lost: %+v", cfg.Displacement)
	}
}

func TestLoadClamps(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		check func(*Config) bool
	}{
		{"smoothing zero", "pointer:\n  smoothing: 0\n", func(c *Config) bool { return c.Pointer.Smoothing == 0.05 }},
		{"smoothing above one", "pointer:\n  smoothing: 2\n", func(c *Config) bool { return c.Pointer.Smoothing == 0.05 }},
		{"resolution scale", "background:\n  resolution_scale: -1\n", func(c *Config) bool { return c.Background.ResolutionScale == 1 }},
		{"segments", "displacement:\n  segments_x: 0\n  segments_y: -2\n", func(c *Config) bool {
			return c.Displacement.SegmentsX == 1 && c.Displacement.SegmentsY == 1
		}},
		{"shadow opacity", "displacement:\n  shadow_opacity: 4\n", func(c *Config) bool { return c.Displacement.ShadowOpacity == 1 }},
		{"fallback color", "screen:\n  fallback_color: [2, -0.5, 0.25]\n", func(c *Config) bool {
			return c.Screen.FallbackColor == [3]float64{1, 0, 0.25} && c.Derived.FallbackRGBA == [4]float32{1, 0, 0.25, 1}
		}},
		{"perf window", "telemetry:\n  perf_window: 0\n", func(c *Config) bool { return c.Telemetry.PerfWindow == 60 }},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		path := filepath.Join(dir, "c.yaml")
		if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("%s: Load: %v", tt.name, err)
		}
		if !tt.check(cfg) {
			t.Errorf("%s: value not clamped", tt.name)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("screen: [unterminated\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Displacement.Label = "hello"

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if again.Displacement.Label != "hello" || again.Background != cfg.Background {
		t.Errorf("round trip mismatch: %+v", again.Displacement)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}
