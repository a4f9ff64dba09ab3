package playback

import "fmt"

// State is the lifecycle state of one playback run.
type State int

const (
	Idle State = iota
	Animating
	CutComplete
	Done
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Animating:
		return "animating"
	case CutComplete:
		return "cut-complete"
	case Done:
		return "done"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// IsTerminal reports whether no further transitions can happen from s.
func IsTerminal(s State) bool {
	return s == Done || s == Cancelled
}

// Animating -> Animating covers the progress frames of one cut and the step
// from one cut straight into the next when there is no pause.
func isAllowedTransition(from, to State) bool {
	switch from {
	case Idle:
		return to == Animating || to == Done || to == Cancelled
	case Animating:
		return to == Animating || to == CutComplete || to == Cancelled
	case CutComplete:
		return to == Animating || to == Done || to == Cancelled
	default:
		return false
	}
}
