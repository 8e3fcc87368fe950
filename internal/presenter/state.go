package presenter

import "fmt"

// State is the page-level UI state owned by a Controller
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Target is the element a click landed on
type Target string

const (
	TargetBadge      Target = "badge"
	TargetClose      Target = "close"
	TargetBackground Target = "background"
	TargetContent    Target = "content"
)
