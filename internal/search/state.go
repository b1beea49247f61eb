package search

// State is the lifecycle of a single search component. Every new call moves
// it to StateSearching regardless of where it was.
type State int

const (
	StateIdle State = iota
	StateSearching
	StatePopulated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StatePopulated:
		return "populated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
