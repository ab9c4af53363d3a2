// Package noise is the CPU reference of the background field shader: hashed value
// noise, fractal Brownian motion and the pointer-reactive domain warp.
//
// Every function here is pure and evaluated in float32 so that results line up
// with the GLSL program in renderer/shaders/background.fs.
package noise

import "github.com/chewxy/math32"

// Octaves is the number of fbm layers.
const Octaves = 5

// Vec2 is a 2D point in noise space.
type Vec2 struct {
	X, Y float32
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*s.
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float32 { return math32.Sqrt(v.X*v.X + v.Y*v.Y) }

// Octave rotation, 0.5 rad, and the shift applied between octaves.
var (
	rotCos = math32.Cos(0.5)
	rotSin = math32.Sin(0.5)
	shift  = Vec2{100, 100}
)

// Hash maps a lattice point to a pseudo-random value in [0,1).
func Hash(p Vec2) float32 {
	return fract(math32.Sin(p.X*127.1+p.Y*311.7) * 43758.5453123)
}

// Noise is 2D value noise: the four corner hashes of p's unit cell blended with
// the 3t²-2t³ interpolant.
func Noise(p Vec2) float32 {
	i := Vec2{math32.Floor(p.X), math32.Floor(p.Y)}
	f := p.Sub(i)

	a := Hash(i)
	b := Hash(i.Add(Vec2{1, 0}))
	c := Hash(i.Add(Vec2{0, 1}))
	d := Hash(i.Add(Vec2{1, 1}))

	ux := Smooth(f.X)
	uy := Smooth(f.Y)

	return mix(a, b, ux) + (c-a)*uy*(1-ux) + (d-b)*ux*uy
}

// FBM sums Octaves layers of Noise, halving amplitude and doubling frequency
// each layer. Coordinates are rotated between layers to break up axis-aligned
// artefacts.
func FBM(p Vec2) float32 {
	var v float32
	amp := float32(0.5)
	for i := 0; i < Octaves; i++ {
		v += amp * Noise(p)
		p = rotate(p).Scale(2).Add(shift)
		amp *= 0.5
	}
	return v
}

// Smooth is the cubic Hermite interpolant 3t²-2t³.
func Smooth(t float32) float32 {
	return t * t * (3 - 2*t)
}

// rotate applies the GLSL mat2(c, s, -s, c) column-major rotation.
func rotate(p Vec2) Vec2 {
	return Vec2{
		X: rotCos*p.X - rotSin*p.Y,
		Y: rotSin*p.X + rotCos*p.Y,
	}
}

func fract(x float32) float32 {
	return x - math32.Floor(x)
}

func mix(a, b, t float32) float32 {
	return a + (b-a)*t
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
