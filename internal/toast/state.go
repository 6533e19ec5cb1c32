package toast

// State is the lifecycle position of a notification.
type State int

const (
	// StateEntering is a transient cue for an entry animation.
	StateEntering State = iota
	// StateVisible means the entry is on the surface and may auto-dismiss.
	StateVisible
	// StateLeaving means the exit animation is running.
	StateLeaving
	// StateRemoved is terminal; the entry is detached from the surface.
	StateRemoved
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateEntering:
		return "entering"
	case StateVisible:
		return "visible"
	case StateLeaving:
		return "leaving"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// transitions lists every legal edge of the lifecycle.
// An entry that is still entering may be dismissed directly.
var transitions = map[State][]State{
	StateEntering: {StateVisible, StateLeaving},
	StateVisible:  {StateLeaving},
	StateLeaving:  {StateRemoved},
}

// CanTransition reports whether moving from s to next is allowed.
func (s State) CanTransition(next State) bool {
	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// Active reports whether the entry can still be dismissed.
func (s State) Active() bool {
	return s == StateEntering || s == StateVisible
}

// CloseReason records why an entry left the surface.
type CloseReason int

const (
	// CloseReasonExpired means the auto-dismiss timer fired.
	CloseReasonExpired CloseReason = iota + 1
	// CloseReasonDismissed means a caller or the user dismissed the entry.
	CloseReasonDismissed
	// CloseReasonClosed means the entry was closed programmatically or on shutdown.
	CloseReasonClosed
	// CloseReasonEvicted means the entry made room for a newer one.
	CloseReasonEvicted
)

// String returns the string representation of CloseReason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonEvicted:
		return "evicted"
	default:
		return "unknown"
	}
}

// ParseState is the inverse of State.String.
func ParseState(s string) (State, bool) {
	for _, st := range []State{StateEntering, StateVisible, StateLeaving, StateRemoved} {
		if st.String() == s {
			return st, true
		}
	}
	return 0, false
}
