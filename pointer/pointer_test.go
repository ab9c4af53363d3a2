package pointer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDefaultStateIsCentreWithNoHover(t *testing.T) {
	tr := NewTracker(DefaultSmoothing)
	s := tr.State()

	if s.Seen {
		t.Error("expected no event seen")
	}
	if s.Smoothed != (mgl32.Vec2{}) || s.Target != (mgl32.Vec2{}) {
		t.Errorf("expected centre, got target %v smoothed %v", s.Target, s.Smoothed)
	}
	if s.Hover != 0 {
		t.Errorf("expected hover 0, got %f", s.Hover)
	}

	// Stepping without events stays put.
	for i := 0; i < 30; i++ {
		s = tr.Step()
	}
	if s.Smoothed != (mgl32.Vec2{}) || s.Hover != 0 {
		t.Errorf("idle tracker drifted: %+v", s)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		px, py     float32
		w, h       float32
		wantX, wan float32
	}{
		{"centre", 400, 300, 800, 600, 0, 0},
		{"top-left", 0, 0, 800, 600, -1, 1},
		{"bottom-right", 800, 600, 800, 600, 1, -1},
		{"zero area", 10, 10, 0, 0, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.px, tc.py, tc.w, tc.h)
			if got.X() != tc.wantX || got.Y() != tc.wan {
				t.Errorf("Normalize = %v, want (%f, %f)", got, tc.wantX, tc.wan)
			}
		})
	}
}

func TestStationaryPointerSettles(t *testing.T) {
	tr := NewTracker(0.05)
	tr.SetSize(800, 600)
	tr.Move(400, 300)

	var s State
	for i := 0; i < 120; i++ { // 2 seconds at 60 Hz
		s = tr.Step()
	}

	if s.Hover < 0.95 {
		t.Errorf("hover after 2s = %f, want >= 0.95", s.Hover)
	}
	if d := s.Smoothed.Sub(s.Target).Len(); d > 0.01 {
		t.Errorf("smoothed %v is %f from target %v", s.Smoothed, d, s.Target)
	}
}

func TestSmoothingHasNoOvershoot(t *testing.T) {
	tr := NewTracker(0.05)
	tr.SetSize(100, 100)
	tr.Move(100, 50) // NDC (1, 0)

	prev := float32(0)
	for i := 0; i < 300; i++ {
		s := tr.Step()
		x := s.Smoothed.X()
		if x < prev {
			t.Fatalf("frame %d: x decreased %f -> %f", i, prev, x)
		}
		if x > 1 {
			t.Fatalf("frame %d: overshoot x=%f", i, x)
		}
		prev = x
	}
}

func TestFirstStepMatchesExponentialLaw(t *testing.T) {
	tr := NewTracker(0.05)
	tr.SetSize(200, 200)
	tr.Move(200, 0) // NDC (1, 1)

	s := tr.Step()
	if math.Abs(float64(s.Smoothed.X()-0.05)) > 1e-6 || math.Abs(float64(s.Hover-0.05)) > 1e-6 {
		t.Errorf("after one step: smoothed %v hover %f, want 0.05 each", s.Smoothed, s.Hover)
	}
}

func TestLeaveDecaysHover(t *testing.T) {
	tr := NewTracker(0.05)
	tr.SetSize(800, 600)
	tr.Move(600, 150)
	for i := 0; i < 120; i++ {
		tr.Step()
	}
	peak := tr.State().Hover

	tr.Leave()
	var s State
	for i := 0; i < 120; i++ {
		s = tr.Step()
	}

	if s.Hover >= peak || s.Hover > 0.05 {
		t.Errorf("hover after leave = %f (peak %f), want decayed below 0.05", s.Hover, peak)
	}
	if s.Target.X() != 0.5 || s.Target.Y() != 0.5 {
		t.Errorf("leave should keep the target, got %v", s.Target)
	}
}

func TestInvalidSmoothingFallsBack(t *testing.T) {
	for _, a := range []float32{0, -1, 2} {
		if tr := NewTracker(a); tr.alpha != DefaultSmoothing {
			t.Errorf("NewTracker(%f).alpha = %f, want default", a, tr.alpha)
		}
	}
}

func TestAspect(t *testing.T) {
	tr := NewTracker(0)
	if tr.Aspect() != 1 {
		t.Errorf("aspect before size = %f, want 1", tr.Aspect())
	}
	tr.SetSize(1600, 900)
	if math.Abs(float64(tr.Aspect())-16.0/9.0) > 1e-6 {
		t.Errorf("aspect = %f", tr.Aspect())
	}
}
