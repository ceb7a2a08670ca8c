package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotReady marks a wallet provider that never finished initializing
	// within the bounded readiness poll. Recoverable by user retry.
	ErrNotReady = errors.New("provider not ready")
	// ErrNotConnected marks an operation that required a connected wallet.
	ErrNotConnected = errors.New("wallet not connected")
	// ErrContractNotDeployed marks a configured contract address with no code
	// behind it. Fatal to the session; never retried automatically.
	ErrContractNotDeployed = errors.New("contract not deployed")
	// ErrPublish marks a metadata upload failure. Nothing is committed
	// on-chain yet, so retrying from idle is safe.
	ErrPublish = errors.New("metadata publish failed")
	// ErrTransactionFailed marks a rejected or reverted transaction.
	ErrTransactionFailed = errors.New("transaction failed")
	// ErrTransactionTimeout marks a confirmation wait that exhausted its
	// budget. The outcome is ambiguous; callers must re-verify before
	// retrying to avoid a duplicate submission.
	ErrTransactionTimeout = errors.New("transaction confirmation timeout")
	// ErrDuplicateISBN marks the contract-level uniqueness rejection.
	ErrDuplicateISBN = errors.New("isbn already minted")
	// ErrInvalidInput marks empty or malformed user input.
	ErrInvalidInput = errors.New("invalid input")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above; every orchestrator stage catches only
// errors it can classify and lets the rest propagate unchanged.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		if err != nil {
			return fmt.Errorf("%s: %w", detail, err)
		}
		return errors.New(detail)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Recoverable reports whether a caller may re-invoke the failed operation
// without first fixing configuration or re-checking chain state.
func Recoverable(err error) bool {
	switch {
	case errors.Is(err, ErrNotReady),
		errors.Is(err, ErrPublish),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrNotConnected):
		return true
	default:
		return false
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
