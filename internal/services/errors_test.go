package services_test

import (
	"errors"
	"strings"
	"testing"

	"folio/internal/services"
)

func TestWrapPreservesMarkerAndCause(t *testing.T) {
	cause := errors.New("socket closed")
	err := services.Wrap(services.ErrPublish, "metadata", "publish", "upload", cause)

	if !errors.Is(err, services.ErrPublish) {
		t.Fatalf("expected publish marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected original cause preserved, got %v", err)
	}
	if !strings.Contains(err.Error(), "metadata: publish: upload") {
		t.Fatalf("expected stage detail in message, got %q", err.Error())
	}
}

func TestWrapWithoutMarker(t *testing.T) {
	err := services.Wrap(nil, "chain", "lookup", "rpc", errors.New("boom"))
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, services.ErrPublish) || errors.Is(err, services.ErrNotReady) {
		t.Fatalf("unmarked error should carry no classification: %v", err)
	}
}

func TestRecoverable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{services.Wrap(services.ErrNotReady, "identity", "connect", "", nil), true},
		{services.Wrap(services.ErrPublish, "metadata", "publish", "", nil), true},
		{services.Wrap(services.ErrInvalidInput, "workflow", "mint", "", nil), true},
		{services.Wrap(services.ErrContractNotDeployed, "chain", "lookup", "", nil), false},
		{services.Wrap(services.ErrTransactionFailed, "chain", "confirm", "", nil), false},
		{services.Wrap(services.ErrDuplicateISBN, "chain", "mint", "", nil), false},
	}
	for _, tc := range cases {
		if got := services.Recoverable(tc.err); got != tc.want {
			t.Errorf("Recoverable(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
