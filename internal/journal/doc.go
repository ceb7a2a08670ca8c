// Package journal persists workflow history in SQLite: one row per verify or
// mint invocation, its state transitions, and the read snapshots produced.
//
// The journal is a read model for audit and debugging. The orchestrator never
// consults it to make workflow decisions, so journal write failures degrade
// to log warnings rather than failing the user's operation.
package journal
