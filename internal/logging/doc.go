// Package logging assembles the structured slog loggers used across the
// minting workflow.
//
// It centralizes level and output plumbing, exposes typed attribute helpers,
// and provides a no-op logger for tests and wiring code that cannot fail.
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
