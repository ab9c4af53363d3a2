package effect

import "time"

// FrameClock measures elapsed time since the first frame and the delta
// between frames. It only moves forward.
type FrameClock struct {
	now     func() time.Time
	start   time.Time
	last    time.Time
	elapsed time.Duration
	delta   time.Duration
	frame   uint64
}

// NewFrameClock returns a clock reading now, or time.Now when nil.
func NewFrameClock(now func() time.Time) *FrameClock {
	if now == nil {
		now = time.Now
	}
	return &FrameClock{now: now}
}

// Advance starts a new frame and returns elapsed and delta seconds. The first
// frame has zero elapsed time and zero delta.
func (c *FrameClock) Advance() (elapsed, delta float32) {
	t := c.now()
	if c.frame == 0 {
		c.start, c.last = t, t
	}
	d := t.Sub(c.last)
	if d < 0 {
		d = 0
	}
	c.delta = d
	c.elapsed += d
	c.last = t
	c.frame++
	return float32(c.elapsed.Seconds()), float32(c.delta.Seconds())
}

// Elapsed returns the time accumulated up to the last Advance.
func (c *FrameClock) Elapsed() time.Duration { return c.elapsed }

// Delta returns the duration of the last frame.
func (c *FrameClock) Delta() time.Duration { return c.delta }

// Frame returns the number of frames advanced.
func (c *FrameClock) Frame() uint64 { return c.frame }
