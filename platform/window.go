// Package platform hosts the effects in a raylib window. The window is the
// effect.Surface (size, resize and pointer events) and the effect.Scheduler
// (one callback batch per display refresh).
package platform

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sheen/effect"
)

// Config holds window creation settings.
type Config struct {
	Width     int
	Height    int
	TargetFPS int
	Title     string
	// Fallback is the clear color drawn under the effects, and alone when
	// they cannot render.
	Fallback [4]float32
}

type frameRequest struct {
	id effect.FrameID
	fn func()
}

// Window is a resizable raylib window. All methods must be called from the
// main thread.
type Window struct {
	width, height int
	fallback      rl.Color

	nextSub     int
	resizeSubs  map[int]func(w, h int)
	pointerSubs map[int]func(effect.PointerEvent)

	nextFrame effect.FrameID
	frames    []frameRequest

	lastMouse rl.Vector2
	inside    bool
}

// Open creates the window and its OpenGL context.
func Open(cfg Config) *Window {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint | rl.FlagVsyncHint)
	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), cfg.Title)
	if cfg.TargetFPS > 0 {
		rl.SetTargetFPS(int32(cfg.TargetFPS))
	}

	return &Window{
		width:  rl.GetScreenWidth(),
		height: rl.GetScreenHeight(),
		fallback: rl.Color{
			R: uint8(cfg.Fallback[0] * 255),
			G: uint8(cfg.Fallback[1] * 255),
			B: uint8(cfg.Fallback[2] * 255),
			A: 255,
		},
		resizeSubs:  make(map[int]func(w, h int)),
		pointerSubs: make(map[int]func(effect.PointerEvent)),
	}
}

// Close destroys the window. Effects must be disposed first.
func (w *Window) Close() {
	rl.CloseWindow()
}

// ShouldClose reports whether the user asked to close the window.
func (w *Window) ShouldClose() bool {
	return rl.WindowShouldClose()
}

// Size returns the drawable size in pixels.
func (w *Window) Size() (int, int) { return w.width, w.height }

// OnResize registers fn for window size changes.
func (w *Window) OnResize(fn func(w, h int)) func() {
	w.nextSub++
	id := w.nextSub
	w.resizeSubs[id] = fn
	return func() { delete(w.resizeSubs, id) }
}

// OnPointer registers fn for pointer moves and leaves.
func (w *Window) OnPointer(fn func(effect.PointerEvent)) func() {
	w.nextSub++
	id := w.nextSub
	w.pointerSubs[id] = fn
	return func() { delete(w.pointerSubs, id) }
}

// Listeners returns the number of registered event listeners.
func (w *Window) Listeners() int { return len(w.resizeSubs) + len(w.pointerSubs) }

// RequestFrame queues fn for the next Frame.
func (w *Window) RequestFrame(fn func()) effect.FrameID {
	w.nextFrame++
	w.frames = append(w.frames, frameRequest{id: w.nextFrame, fn: fn})
	return w.nextFrame
}

// CancelFrame drops a queued request. Unknown ids are ignored.
func (w *Window) CancelFrame(id effect.FrameID) {
	w.frames = slices.DeleteFunc(w.frames, func(r frameRequest) bool { return r.id == id })
}

// Frame polls input, runs the queued frame callbacks over the fallback
// color, then draws overlay on top and presents.
func (w *Window) Frame(overlay func()) {
	w.pollResize()
	w.pollPointer()

	rl.BeginDrawing()
	rl.ClearBackground(w.fallback)

	// Callbacks queued while running belong to the next frame.
	due := w.frames
	w.frames = nil
	for _, r := range due {
		r.fn()
	}

	if overlay != nil {
		overlay()
	}
	rl.EndDrawing()
}

func (w *Window) pollResize() {
	if !rl.IsWindowResized() {
		return
	}
	nw, nh := rl.GetScreenWidth(), rl.GetScreenHeight()
	if nw == w.width && nh == w.height {
		return
	}
	w.width, w.height = nw, nh
	for _, fn := range w.resizeSubs {
		fn(nw, nh)
	}
}

func (w *Window) pollPointer() {
	inside := rl.IsCursorOnScreen()
	if !inside {
		if w.inside {
			w.inside = false
			w.emit(effect.PointerEvent{Kind: effect.PointerLeave})
		}
		return
	}

	pos := rl.GetMousePosition()
	if w.inside && pos == w.lastMouse {
		return
	}
	w.inside = true
	w.lastMouse = pos
	w.emit(effect.PointerEvent{Kind: effect.PointerMove, X: pos.X, Y: pos.Y})
}

func (w *Window) emit(ev effect.PointerEvent) {
	for _, fn := range w.pointerSubs {
		fn(ev)
	}
}
