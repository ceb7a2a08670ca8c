package workflow

import "strings"

// State is the single workflow state surfaced to the presentation layer. It
// is owned exclusively by the Orchestrator; every other component is
// stateless with respect to the workflow.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateVerifying  State = "verifying"
	StatePublishing State = "publishing"
	StateSubmitting State = "submitting"
	StateConfirming State = "confirming"
	StateSuccess    State = "success"
	StateError      State = "error"
)

var allStates = []State{
	StateIdle,
	StateConnecting,
	StateVerifying,
	StatePublishing,
	StateSubmitting,
	StateConfirming,
	StateSuccess,
	StateError,
}

var busyStates = map[State]struct{}{
	StateConnecting: {},
	StateVerifying:  {},
	StatePublishing: {},
	StateSubmitting: {},
	StateConfirming: {},
}

// AllStates returns the ordered list of known states.
func AllStates() []State {
	cp := make([]State, len(allStates))
	copy(cp, allStates)
	return cp
}

// ParseState converts a string into a known State.
func ParseState(value string) (State, bool) {
	normalized := State(strings.ToLower(strings.TrimSpace(value)))
	for _, s := range allStates {
		if s == normalized {
			return s, true
		}
	}
	return "", false
}

// Busy reports whether the state represents an in-flight operation. New
// invocations are rejected while busy; Idle, Success, and Error all accept a
// fresh verify or mint.
func (s State) Busy() bool {
	_, ok := busyStates[s]
	return ok
}
