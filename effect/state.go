package effect

// State is the lifecycle phase of an Instance.
type State int32

const (
	Uninitialized State = iota
	Acquiring
	Running
	Disposing
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Acquiring:
		return "acquiring"
	case Running:
		return "running"
	case Disposing:
		return "disposing"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}
