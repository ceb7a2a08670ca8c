// Package identity wraps a third-party identity/wallet provider in an
// explicit readiness state machine.
//
// Providers initialize asynchronously and some integrations expose no
// completion event, so the Session offers a panic-safe readiness probe and a
// bounded retry-then-connect policy instead of assuming the provider is
// usable at construction time. The session is the sole owner of connection
// state; the orchestrator only touches it through Connect, RetryConnect,
// CurrentAddress, CurrentSigner, and Logout.
//
// The modal, no-modal, and hosted integrations all implement the same
// Provider interface and are selected by name at configuration time.
package identity
