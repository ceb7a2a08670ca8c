package workflow_test

import (
	"testing"

	"folio/internal/workflow"
)

func TestParseState(t *testing.T) {
	cases := []struct {
		input string
		want  workflow.State
		ok    bool
	}{
		{"idle", workflow.StateIdle, true},
		{" Confirming ", workflow.StateConfirming, true},
		{"SUCCESS", workflow.StateSuccess, true},
		{"minting", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := workflow.ParseState(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseState(%q) = %q, %v; want %q, %v", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestBusyStates(t *testing.T) {
	busy := map[workflow.State]bool{
		workflow.StateConnecting: true,
		workflow.StateVerifying:  true,
		workflow.StatePublishing: true,
		workflow.StateSubmitting: true,
		workflow.StateConfirming: true,
	}
	for _, state := range workflow.AllStates() {
		if got := state.Busy(); got != busy[state] {
			t.Errorf("%s.Busy() = %v, want %v", state, got, busy[state])
		}
	}
}
