// Package workflow sequences the wallet session, metadata publisher, and
// chain client into the verify and mint operations.
//
// The Orchestrator owns the single workflow state the presentation layer
// observes (idle, connecting, verifying, publishing, submitting, confirming,
// success, error) and enforces the ordering invariants: a mint never touches
// the publisher or the chain until the wallet is connected, and never reaches
// the chain write path without a published metadata reference from the same
// invocation. At most one operation is in flight at a time; a stage failure
// halts the pipeline with the cause preserved, and the caller recovers by
// re-invoking from error or idle.
//
// There is no cancellation once submission starts: a caller may abandon the
// wait, but must re-verify to learn the true outcome.
package workflow
