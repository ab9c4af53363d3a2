package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one effect frame.
const (
	PhaseResize     = "resize"
	PhasePointer    = "pointer"
	PhaseFocus      = "focus"
	PhaseBackground = "background"
	PhaseSurface    = "surface"
	PhasePresent    = "present"
)

// Phases lists the frame phases in execution order.
var Phases = []string{
	PhaseResize, PhasePointer, PhaseFocus,
	PhaseBackground, PhaseSurface, PhasePresent,
}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks frame timings over a rolling window. It is owned by
// the frame loop and not safe for concurrent use.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string
	frames        int64

	// Wall time between consecutive frames, including vsync waits.
	lastPresent time.Time
	interval    time.Duration

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
		now:           time.Now,
	}
}

// WindowSize returns the number of frames averaged by Stats.
func (p *PerfCollector) WindowSize() int { return p.windowSize }

// Frames returns the number of completed frames.
func (p *PerfCollector) Frames() int64 { return p.frames }

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = p.now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame finishes the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := p.now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.frames++

	if !p.lastPresent.IsZero() {
		p.interval = now.Sub(p.lastPresent)
	}
	p.lastPresent = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgFrameDuration time.Duration
	MinFrameDuration time.Duration
	MaxFrameDuration time.Duration

	// Average phase durations and their share of the frame.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	// Presentation rate from the wall time between frames.
	Interval time.Duration
	FPS      float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.interval > 0 {
		fps = float64(time.Second) / float64(p.interval)
	}
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
			Interval: p.interval,
			FPS:      fps,
		}
	}

	var total, minFrame, maxFrame time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.FrameDuration
		if i == 0 || s.FrameDuration < minFrame {
			minFrame = s.FrameDuration
		}
		if s.FrameDuration > maxFrame {
			maxFrame = s.FrameDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)
	phaseAvg := make(map[string]time.Duration, len(phaseSum))
	phasePct := make(map[string]float64, len(phaseSum))
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	return PerfStats{
		AvgFrameDuration: avg,
		MinFrameDuration: minFrame,
		MaxFrameDuration: maxFrame,
		PhaseAvg:         phaseAvg,
		PhasePct:         phasePct,
		Interval:         p.interval,
		FPS:              fps,
	}
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrameDuration.Microseconds()),
		slog.Int64("min_frame_us", s.MinFrameDuration.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrameDuration.Microseconds()),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// Log writes the stats at info level.
func (s PerfStats) Log(log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	log.Info("perf", "stats", s)
}

// PerfStatsCSV is a flat row of perf.csv.
type PerfStatsCSV struct {
	Frame         int64   `csv:"frame"`
	AvgFrameUS    int64   `csv:"avg_frame_us"`
	MinFrameUS    int64   `csv:"min_frame_us"`
	MaxFrameUS    int64   `csv:"max_frame_us"`
	FPS           float64 `csv:"fps"`
	ResizePct     float64 `csv:"resize_pct"`
	PointerPct    float64 `csv:"pointer_pct"`
	FocusPct      float64 `csv:"focus_pct"`
	BackgroundPct float64 `csv:"background_pct"`
	SurfacePct    float64 `csv:"surface_pct"`
	PresentPct    float64 `csv:"present_pct"`
}

// ToCSV flattens the stats for the window ending at frame.
func (s PerfStats) ToCSV(frame int64) PerfStatsCSV {
	return PerfStatsCSV{
		Frame:         frame,
		AvgFrameUS:    s.AvgFrameDuration.Microseconds(),
		MinFrameUS:    s.MinFrameDuration.Microseconds(),
		MaxFrameUS:    s.MaxFrameDuration.Microseconds(),
		FPS:           s.FPS,
		ResizePct:     s.PhasePct[PhaseResize],
		PointerPct:    s.PhasePct[PhasePointer],
		FocusPct:      s.PhasePct[PhaseFocus],
		BackgroundPct: s.PhasePct[PhaseBackground],
		SurfacePct:    s.PhasePct[PhaseSurface],
		PresentPct:    s.PhasePct[PhasePresent],
	}
}
