// Package camera provides the perspective camera used to map pointer input into
// world space and to build the view-projection uniforms.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is a right-handed look-at perspective camera.
type Camera struct {
	// Position is the eye point in world coordinates
	Position r3.Vec
	// Target is the point the camera looks at
	Target r3.Vec
	// Up is the approximate world up direction
	Up r3.Vec

	// FovY is the vertical field of view in radians
	FovY float64
	// Aspect is viewport width / height
	Aspect float64

	Near, Far float64
}

// New creates a camera at position looking at target with a vertical field of
// view given in degrees.
func New(position, target r3.Vec, fovYDeg, aspect float64) *Camera {
	if aspect <= 0 {
		aspect = 1
	}
	return &Camera{
		Position: position,
		Target:   target,
		Up:       r3.Vec{Y: 1},
		FovY:     fovYDeg * math.Pi / 180,
		Aspect:   aspect,
		Near:     0.1,
		Far:      100,
	}
}

// Resize updates the aspect ratio for a new viewport. A zero-area viewport is
// ignored so the last valid projection stays in use.
func (c *Camera) Resize(viewportW, viewportH float64) {
	if viewportW <= 0 || viewportH <= 0 {
		return
	}
	c.Aspect = viewportW / viewportH
}

// Basis returns the camera's forward, right and up unit vectors.
func (c *Camera) Basis() (forward, right, up r3.Vec) {
	forward = r3.Unit(r3.Sub(c.Target, c.Position))
	right = r3.Unit(r3.Cross(forward, c.Up))
	up = r3.Cross(right, forward)
	return forward, right, up
}

// Ray returns the world-space ray through a point in normalised device
// coordinates ([-1,1]², y up).
func (c *Camera) Ray(ndcX, ndcY float64) Ray {
	forward, right, up := c.Basis()
	tanHalf := math.Tan(c.FovY / 2)

	dir := r3.Add(forward, r3.Add(
		r3.Scale(ndcX*tanHalf*c.Aspect, right),
		r3.Scale(ndcY*tanHalf, up),
	))
	return Ray{Origin: c.Position, Dir: r3.Unit(dir)}
}

// Project maps a world point to normalised device coordinates. ok is false for
// points at or behind the eye.
func (c *Camera) Project(p r3.Vec) (ndcX, ndcY float64, ok bool) {
	forward, right, up := c.Basis()
	v := r3.Sub(p, c.Position)

	z := r3.Dot(v, forward)
	if z <= 0 {
		return 0, 0, false
	}
	tanHalf := math.Tan(c.FovY / 2)
	ndcX = r3.Dot(v, right) / (z * tanHalf * c.Aspect)
	ndcY = r3.Dot(v, up) / (z * tanHalf)
	return ndcX, ndcY, true
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(vec3(c.Position), vec3(c.Target), vec3(c.Up))
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(float32(c.FovY), float32(c.Aspect), float32(c.Near), float32(c.Far))
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Eye returns the camera position as a float32 vector for shader uniforms.
func (c *Camera) Eye() mgl32.Vec3 {
	return vec3(c.Position)
}

func vec3(v r3.Vec) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}
