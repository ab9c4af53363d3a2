package telemetry

import (
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock { return &fakeClock{t: time.Unix(1700000000, 0)} }

func collectorWithClock(window int) (*PerfCollector, *fakeClock) {
	pc := NewPerfCollector(window)
	clk := newFakeClock()
	pc.now = clk.now
	return pc, clk
}

func TestPerfCollector_PhaseTiming(t *testing.T) {
	pc, clk := collectorWithClock(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseBackground)
		clk.advance(3 * time.Millisecond)
		pc.StartPhase(PhaseSurface)
		clk.advance(1 * time.Millisecond)
		pc.EndFrame()
		clk.advance(12 * time.Millisecond) // vsync wait
	}

	stats := pc.Stats()
	if stats.AvgFrameDuration != 4*time.Millisecond {
		t.Errorf("avg frame = %v, want 4ms", stats.AvgFrameDuration)
	}
	if got := stats.PhaseAvg[PhaseBackground]; got != 3*time.Millisecond {
		t.Errorf("background avg = %v, want 3ms", got)
	}
	if got := stats.PhasePct[PhaseSurface]; got != 25 {
		t.Errorf("surface pct = %v, want 25", got)
	}
	if stats.Interval != 16*time.Millisecond {
		t.Errorf("interval = %v, want 16ms", stats.Interval)
	}
	if stats.FPS != 62.5 {
		t.Errorf("fps = %v, want 62.5", stats.FPS)
	}
	if pc.Frames() != 5 {
		t.Errorf("frames = %d, want 5", pc.Frames())
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc, clk := collectorWithClock(5)

	// Five slow frames pushed out by five fast ones.
	for i := 0; i < 10; i++ {
		d := 10 * time.Millisecond
		if i >= 5 {
			d = time.Millisecond
		}
		pc.StartFrame()
		pc.StartPhase(PhasePointer)
		clk.advance(d)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.MaxFrameDuration != time.Millisecond || stats.MinFrameDuration != time.Millisecond {
		t.Errorf("window still holds old frames: min %v max %v", stats.MinFrameDuration, stats.MaxFrameDuration)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()
	if stats.AvgFrameDuration != 0 {
		t.Error("expected zero avg frame duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
	if stats.FPS != 0 {
		t.Errorf("fps = %v, want 0", stats.FPS)
	}
}

func TestPerfCollector_DefaultWindow(t *testing.T) {
	if got := NewPerfCollector(0).WindowSize(); got != 60 {
		t.Errorf("window = %d, want 60", got)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgFrameDuration: 2500 * time.Microsecond,
		FPS:              60,
		PhasePct:         map[string]float64{PhaseBackground: 70, PhaseSurface: 20},
	}
	row := s.ToCSV(120)
	if row.Frame != 120 || row.AvgFrameUS != 2500 || row.BackgroundPct != 70 || row.SurfacePct != 20 || row.FocusPct != 0 {
		t.Errorf("unexpected row %+v", row)
	}
}
