// Package services defines shared utilities consumed by the workflow
// orchestrator and the external integrations it sequences.
//
// Key responsibilities:
//   - Context helpers that stamp invocation ids, stage names, and the ISBN
//     under work for logging and journaling.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification uniform across the wallet, publisher, and chain layers.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay consistent across the pipeline.
package services
