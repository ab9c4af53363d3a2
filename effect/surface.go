package effect

// PointerKind distinguishes pointer events.
type PointerKind int

const (
	PointerMove PointerKind = iota
	PointerLeave
)

// PointerEvent is one pointer update in surface pixels, origin top-left.
type PointerEvent struct {
	Kind PointerKind
	X, Y float32
}

// Surface is the sized drawing area an effect is mounted on. Subscriptions
// return a function that removes the listener.
type Surface interface {
	Size() (w, h int)
	OnResize(fn func(w, h int)) (unsubscribe func())
	OnPointer(fn func(PointerEvent)) (unsubscribe func())
}

// FrameID names one pending frame request.
type FrameID uint64

// Scheduler runs callbacks once on the next display refresh.
type Scheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}
