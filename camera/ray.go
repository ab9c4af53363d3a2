package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// parallelEpsilon is the smallest |dir·normal| treated as a crossing.
const parallelEpsilon = 1e-9

// Ray is a half-line from Origin along the unit vector Dir.
type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Dir))
}

// Plane is a rectangle in 3D space. A non-positive half extent makes the plane
// unbounded along that tangent.
type Plane struct {
	Center r3.Vec
	Normal r3.Vec
	U, V   r3.Vec // unit tangents
	HalfW  float64
	HalfH  float64
}

// NewPlane builds a width×height rectangle centred on center and facing normal.
// The U tangent is kept horizontal where possible.
func NewPlane(center, normal r3.Vec, width, height float64) Plane {
	n := r3.Unit(normal)
	ref := r3.Vec{Y: 1}
	if math.Abs(r3.Dot(n, ref)) > 0.99 {
		ref = r3.Vec{Z: 1}
	}
	u := r3.Unit(r3.Cross(ref, n))
	v := r3.Cross(n, u)
	return Plane{
		Center: center,
		Normal: n,
		U:      u,
		V:      v,
		HalfW:  width / 2,
		HalfH:  height / 2,
	}
}

// Intersect returns where r crosses the plane. ok is false when the ray is
// parallel to the plane, points away from it, or crosses outside the bounds.
func (p Plane) Intersect(r Ray) (hit r3.Vec, ok bool) {
	denom := r3.Dot(p.Normal, r.Dir)
	if math.Abs(denom) < parallelEpsilon {
		return r3.Vec{}, false
	}
	t := r3.Dot(r3.Sub(p.Center, r.Origin), p.Normal) / denom
	if t < 0 {
		return r3.Vec{}, false
	}
	hit = r.At(t)

	local := r3.Sub(hit, p.Center)
	if p.HalfW > 0 && math.Abs(r3.Dot(local, p.U)) > p.HalfW {
		return r3.Vec{}, false
	}
	if p.HalfH > 0 && math.Abs(r3.Dot(local, p.V)) > p.HalfH {
		return r3.Vec{}, false
	}
	return hit, true
}
