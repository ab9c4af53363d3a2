// Package effect mounts the hero effects on a Surface and drives them from a
// Scheduler: one generation-guarded frame loop per instance, with an explicit
// lifecycle from acquisition to disposal.
package effect

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pthm-cable/sheen/colorfield"
	"github.com/pthm-cable/sheen/gpu"
	"github.com/pthm-cable/sheen/pointer"
	"github.com/pthm-cable/sheen/renderer"
	"github.com/pthm-cable/sheen/telemetry"
)

// FrameInfo is a snapshot of the last completed frame.
type FrameInfo struct {
	Frame   uint64
	Elapsed float32
	Pointer pointer.State
	Focus   renderer.FocusPoint
	Hit     bool
}

// Instance is one mounted effect.
type Instance struct {
	opts    Options
	log     *slog.Logger
	surface Surface
	sched   Scheduler

	mu            sync.Mutex
	state         State
	generation    uint64
	frameID       FrameID
	framePending  bool
	pendingW      int
	pendingH      int
	resizePending bool
	unsubscribe   []func()
	info          FrameInfo

	// frameMu is held for a whole tick and by disposal, so the host is never
	// released under a running frame.
	frameMu sync.Mutex

	host       *gpu.Host
	clock      *FrameClock
	tracker    *pointer.Tracker
	field      *colorfield.Field
	background *renderer.BackgroundRenderer
	scene      *renderer.LabelScene
	perf       *telemetry.PerfCollector
}

// Mount acquires a rendering context, builds every stage and starts the
// frame loop. On failure the returned Instance is already Disposed, holds no
// GPU objects and err wraps the cause: gpu.ErrContextUnavailable, a
// *gpu.ShaderCompileError or a *gpu.ProgramLinkError.
func Mount(surface Surface, sched Scheduler, opts Options) (*Instance, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	perf := opts.Perf
	if perf == nil {
		perf = telemetry.NewPerfCollector(60)
	}
	in := &Instance{
		opts:    opts,
		log:     log,
		surface: surface,
		sched:   sched,
		clock:   NewFrameClock(opts.Now),
		tracker: pointer.NewTracker(opts.Smoothing),
		perf:    perf,
	}

	in.setState(Acquiring)
	in.field = colorfield.New(opts.ColorField)

	host, err := gpu.Acquire(opts.Backend, log)
	if err != nil {
		log.Warn("effect disabled", "err", err)
		in.setState(Disposed)
		return in, err
	}
	in.host = host

	w, h := surface.Size()
	in.tracker.SetSize(float32(w), float32(h))
	if err := host.Resize(w, h); err != nil {
		return in, in.abort(err)
	}
	if err := in.build(); err != nil {
		return in, in.abort(err)
	}

	in.mu.Lock()
	in.unsubscribe = append(in.unsubscribe,
		surface.OnPointer(in.handlePointer),
		surface.OnResize(in.handleResize),
	)
	in.mu.Unlock()

	in.setState(Running)
	in.mu.Lock()
	in.schedule(in.generation)
	in.mu.Unlock()
	return in, nil
}

func (in *Instance) build() error {
	var err error
	in.background, err = renderer.NewBackgroundRenderer(in.host, in.opts.Background, in.opts.ResolutionScale)
	if err != nil {
		return err
	}
	in.scene, err = renderer.NewLabelScene(in.host, in.opts.Label, in.field)
	return err
}

// abort releases whatever was built during Acquiring and ends in Disposed.
func (in *Instance) abort(err error) error {
	in.log.Error("effect initialisation failed", "err", err)
	in.host.Dispose()
	in.setState(Disposed)
	return fmt.Errorf("mounting effect: %w", err)
}

func (in *Instance) setState(s State) {
	in.mu.Lock()
	prev := in.state
	in.state = s
	in.mu.Unlock()
	in.log.Debug("effect state", "from", prev.String(), "to", s.String())
}

// State returns the current lifecycle state.
func (in *Instance) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}

// Info returns a snapshot of the last completed frame.
func (in *Instance) Info() FrameInfo {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.info
}

// Perf returns the frame timing collector.
func (in *Instance) Perf() *telemetry.PerfCollector { return in.perf }

// ColorField returns the lookup table built at mount.
func (in *Instance) ColorField() *colorfield.Field { return in.field }

// schedule requests the next tick for gen. in.mu must be held.
func (in *Instance) schedule(gen uint64) {
	in.frameID = in.sched.RequestFrame(func() { in.tick(gen) })
	in.framePending = true
}

func (in *Instance) handlePointer(ev PointerEvent) {
	switch ev.Kind {
	case PointerMove:
		in.tracker.Move(ev.X, ev.Y)
	case PointerLeave:
		in.tracker.Leave()
	}
}

func (in *Instance) handleResize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	in.tracker.SetSize(float32(w), float32(h))
	in.mu.Lock()
	in.pendingW, in.pendingH = w, h
	in.resizePending = true
	in.mu.Unlock()
}

func (in *Instance) tick(gen uint64) {
	ran, err := in.runFrame(gen)
	if err != nil {
		in.log.Error("frame failed, stopping effect", "err", err)
		in.Dispose()
		return
	}
	if !ran {
		return
	}
	in.mu.Lock()
	if in.state == Running && gen == in.generation {
		in.schedule(gen)
	}
	in.mu.Unlock()
}

// runFrame draws one frame unless gen is stale or the instance stopped.
func (in *Instance) runFrame(gen uint64) (bool, error) {
	in.frameMu.Lock()
	defer in.frameMu.Unlock()

	in.mu.Lock()
	if in.state != Running || gen != in.generation {
		in.mu.Unlock()
		return false, nil
	}
	in.framePending = false
	w, h, resize := in.pendingW, in.pendingH, in.resizePending
	in.resizePending = false
	in.mu.Unlock()

	perf := in.perf
	perf.StartFrame()
	elapsed, _ := in.clock.Advance()

	perf.StartPhase(telemetry.PhaseResize)
	if resize {
		if err := in.host.Resize(w, h); err != nil {
			return true, err
		}
	}

	perf.StartPhase(telemetry.PhasePointer)
	ps := in.tracker.Step()

	perf.StartPhase(telemetry.PhaseFocus)
	// The centre default is not a pointer position; raycast only after the
	// first event.
	focus, hit := in.scene.Focus(), false
	if ps.Seen {
		focus, hit = in.scene.Update(ps.Smoothed)
	}

	perf.StartPhase(telemetry.PhaseBackground)
	err := in.background.Draw(renderer.Frame{
		Time:    elapsed,
		Aspect:  in.tracker.Aspect(),
		Pointer: ps.Smoothed,
		Hover:   ps.Hover,
	})
	if err != nil {
		return true, fmt.Errorf("background: %w", err)
	}

	perf.StartPhase(telemetry.PhaseSurface)
	if err := in.scene.Draw(); err != nil {
		return true, err
	}

	perf.StartPhase(telemetry.PhasePresent)
	in.host.EndFrame()
	perf.EndFrame()

	in.mu.Lock()
	in.info = FrameInfo{
		Frame:   in.clock.Frame(),
		Elapsed: elapsed,
		Pointer: ps,
		Focus:   focus,
		Hit:     hit,
	}
	in.mu.Unlock()
	return true, nil
}

// Dispose stops the loop and releases every GPU object, in order: cancel the
// pending frame and invalidate the generation, remove the surface listeners,
// dispose the host. It is safe to call more than once. It waits for a frame
// in progress, so it must not be called from a renderer callback.
func (in *Instance) Dispose() {
	in.mu.Lock()
	if in.state == Disposing || in.state == Disposed {
		in.mu.Unlock()
		return
	}
	prev := in.state
	in.state = Disposing
	in.generation++
	if in.framePending {
		in.sched.CancelFrame(in.frameID)
		in.framePending = false
	}
	unsubs := in.unsubscribe
	in.unsubscribe = nil
	in.mu.Unlock()
	in.log.Debug("effect state", "from", prev.String(), "to", Disposing.String())

	for _, unsub := range unsubs {
		unsub()
	}

	in.frameMu.Lock()
	if in.host != nil {
		in.host.Dispose()
	}
	in.frameMu.Unlock()

	in.setState(Disposed)
}
