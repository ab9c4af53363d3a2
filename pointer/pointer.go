// Package pointer smooths raw pointer input into the per-frame state read by the
// shading stages.
package pointer

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultSmoothing is the per-frame low-pass factor.
const DefaultSmoothing = 0.05

// State is a snapshot of the tracker taken once per frame.
type State struct {
	Target   mgl32.Vec2 // last raw position in NDC, y up
	Smoothed mgl32.Vec2 // filtered position in NDC, y up
	Hover    float32    // hover intensity in [0,1]
	Seen     bool       // at least one pointer event arrived
}

// Tracker filters pointer events. Move, Leave and SetSize may be called from
// event callbacks; Step is called by the frame loop only.
type Tracker struct {
	alpha float32

	mu          sync.Mutex
	width       float32
	height      float32
	target      mgl32.Vec2
	hoverTarget float32
	seen        bool

	// Owned by the frame loop.
	smoothed mgl32.Vec2
	hover    float32
}

// NewTracker creates a tracker at the centre of the surface with zero hover.
// Smoothing factors outside (0,1] fall back to DefaultSmoothing.
func NewTracker(alpha float32) *Tracker {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultSmoothing
	}
	return &Tracker{alpha: alpha}
}

// Normalize converts a pixel position on a w×h surface to NDC with y up.
// A degenerate surface maps everything to the centre.
func Normalize(px, py, w, h float32) mgl32.Vec2 {
	if w <= 0 || h <= 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{
		2*px/w - 1,
		1 - 2*py/h,
	}
}

// SetSize records the surface size used to normalise subsequent events.
func (t *Tracker) SetSize(w, h float32) {
	t.mu.Lock()
	t.width, t.height = w, h
	t.mu.Unlock()
}

// Aspect returns width/height of the tracked surface, or 1 before a size is known.
func (t *Tracker) Aspect() float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.width <= 0 || t.height <= 0 {
		return 1
	}
	return t.width / t.height
}

// Move records a pointer movement in surface pixels.
func (t *Tracker) Move(px, py float32) {
	t.mu.Lock()
	t.target = Normalize(px, py, t.width, t.height)
	t.hoverTarget = 1
	t.seen = true
	t.mu.Unlock()
}

// Leave records that the pointer left the surface. The target position is kept
// so the smoothed position does not drift back to the centre.
func (t *Tracker) Leave() {
	t.mu.Lock()
	t.hoverTarget = 0
	t.mu.Unlock()
}

// Step advances the filter by one frame and returns the new state.
func (t *Tracker) Step() State {
	t.mu.Lock()
	target, hoverTarget, seen := t.target, t.hoverTarget, t.seen
	t.mu.Unlock()

	t.smoothed = t.smoothed.Add(target.Sub(t.smoothed).Mul(t.alpha))
	t.hover += (hoverTarget - t.hover) * t.alpha

	return State{
		Target:   target,
		Smoothed: t.smoothed,
		Hover:    t.hover,
		Seen:     seen,
	}
}

// State returns the current state without advancing the filter.
func (t *Tracker) State() State {
	t.mu.Lock()
	target, seen := t.target, t.seen
	t.mu.Unlock()

	return State{
		Target:   target,
		Smoothed: t.smoothed,
		Hover:    t.hover,
		Seen:     seen,
	}
}
