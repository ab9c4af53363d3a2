package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func newTestCamera() *Camera {
	return New(r3.Vec{Z: 10}, r3.Vec{}, 45, 800.0/600.0)
}

func TestNew(t *testing.T) {
	cam := newTestCamera()

	if cam.Position != (r3.Vec{Z: 10}) {
		t.Errorf("expected camera at (0,0,10), got %v", cam.Position)
	}
	if math.Abs(cam.FovY-math.Pi/4) > 1e-12 {
		t.Errorf("expected fov pi/4, got %f", cam.FovY)
	}
	if bad := New(r3.Vec{Z: 1}, r3.Vec{}, 60, 0); bad.Aspect != 1 {
		t.Errorf("expected aspect fallback 1, got %f", bad.Aspect)
	}
}

func TestCentreRayHitsTarget(t *testing.T) {
	cam := newTestCamera()
	plane := NewPlane(r3.Vec{}, r3.Vec{Z: 1}, 100, 100)

	hit, ok := plane.Intersect(cam.Ray(0, 0))
	if !ok {
		t.Fatal("expected centre ray to hit the plane")
	}
	if r3.Norm(hit) > 1e-9 {
		t.Errorf("expected hit at origin, got %v", hit)
	}
}

func TestRayPlaneRoundtrip(t *testing.T) {
	cam := newTestCamera()
	plane := NewPlane(r3.Vec{}, r3.Vec{Z: 1}, 100, 100)

	testCases := []struct{ x, y float64 }{
		{0, 0},
		{0.5, 0.25},
		{-0.9, 0.8},
		{1, -1},
		{-0.33, -0.77},
	}

	for _, tc := range testCases {
		hit, ok := plane.Intersect(cam.Ray(tc.x, tc.y))
		if !ok {
			t.Fatalf("ray (%f,%f) missed the plane", tc.x, tc.y)
		}
		x, y, ok := cam.Project(hit)
		if !ok {
			t.Fatalf("hit %v projected behind camera", hit)
		}
		if math.Abs(x-tc.x) > 1e-9 || math.Abs(y-tc.y) > 1e-9 {
			t.Errorf("roundtrip failed: (%f,%f) -> %v -> (%f,%f)", tc.x, tc.y, hit, x, y)
		}
	}
}

func TestProjectAgreesWithMatrices(t *testing.T) {
	cam := newTestCamera()
	vp := cam.ViewProjection()

	points := []r3.Vec{{X: 1, Y: 2}, {X: -3, Y: 0.5, Z: 1}, {X: 0.25, Y: -1.5, Z: -2}}
	for _, p := range points {
		x, y, ok := cam.Project(p)
		if !ok {
			t.Fatalf("point %v should be in front of the camera", p)
		}
		clip := vp.Mul4x1(vec3(p).Vec4(1))
		mx := float64(clip.X() / clip.W())
		my := float64(clip.Y() / clip.W())
		if math.Abs(mx-x) > 1e-4 || math.Abs(my-y) > 1e-4 {
			t.Errorf("point %v: Project (%f,%f) vs matrices (%f,%f)", p, x, y, mx, my)
		}
	}
}

func TestProjectBehindCamera(t *testing.T) {
	cam := newTestCamera()
	if _, _, ok := cam.Project(r3.Vec{Z: 20}); ok {
		t.Error("expected point behind the eye to be rejected")
	}
}

func TestIntersectMisses(t *testing.T) {
	plane := NewPlane(r3.Vec{}, r3.Vec{Z: 1}, 10, 10)

	tests := []struct {
		name string
		ray  Ray
	}{
		{"parallel", Ray{Origin: r3.Vec{Z: 5}, Dir: r3.Vec{X: 1}}},
		{"pointing away", Ray{Origin: r3.Vec{Z: 5}, Dir: r3.Vec{Z: 1}}},
		{"outside bounds", Ray{Origin: r3.Vec{X: 20, Z: 5}, Dir: r3.Vec{Z: -1}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if hit, ok := plane.Intersect(tc.ray); ok {
				t.Errorf("expected miss, got hit at %v", hit)
			}
		})
	}
}

func TestUnboundedPlane(t *testing.T) {
	plane := NewPlane(r3.Vec{}, r3.Vec{Z: 1}, 0, 0)
	hit, ok := plane.Intersect(Ray{Origin: r3.Vec{X: 1e4, Z: 5}, Dir: r3.Vec{Z: -1}})
	if !ok || hit.X != 1e4 {
		t.Errorf("unbounded plane should accept far hits, got %v %v", hit, ok)
	}
}

func TestResize(t *testing.T) {
	cam := newTestCamera()

	cam.Resize(400, 400)
	if cam.Aspect != 1 {
		t.Errorf("expected aspect 1, got %f", cam.Aspect)
	}

	cam.Resize(0, 300)
	if cam.Aspect != 1 {
		t.Errorf("zero-area resize changed aspect to %f", cam.Aspect)
	}
}
