// Package chain binds the book registry contract: read-only ISBN lookups,
// the signed mint call, and confirmation waiting.
//
// The client holds no workflow state. It receives explicit inputs (an ISBN, a
// signer, a metadata reference) and returns explicit outputs or classified
// errors; ordering guarantees live in the orchestrator.
package chain
