package renderer

// EaseInOutCubic is 4t³ below one half and mirrored above it. It is continuous
// and monotonic on [0,1].
func EaseInOutCubic(t float32) float32 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// Displacement is the offset along the surface normal for a vertex at
// distance d from the focus point.
func Displacement(d, radius, amplitude float32) float32 {
	if radius <= 0 || d >= radius {
		return 0
	}
	return EaseInOutCubic(1-d/radius) * amplitude
}

// ShadowAlpha attenuates alpha for a shadow texel at distance d from the
// focus point. A non-positive radius leaves alpha unchanged.
func ShadowAlpha(alpha, d, radius float32) float32 {
	if radius <= 0 || d >= radius {
		return alpha
	}
	influence := (radius - d) / radius
	if influence > 1 {
		influence = 1
	}
	return alpha * (1 - influence)
}
