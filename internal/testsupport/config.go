// Package testsupport provides builders shared by the package test suites.
package testsupport

import (
	"path/filepath"
	"testing"

	"folio/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with a unique temp data directory per
// test and placeholder chain settings that pass validation.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Chain.ChainID = 6342
	cfg.Chain.RPCURL = "http://127.0.0.1:8545"
	cfg.Chain.ContractAddress = "0x00000000000000000000000000000000000000aa"
	cfg.Chain.ConfirmTimeoutSeconds = 2
	cfg.Chain.ConfirmPollSeconds = 1
	cfg.Identity.ClientID = "test-client"
	cfg.Identity.ReadyDelayMS = 10
	cfg.IPFS.APIKey = "test-key"
	cfg.Workflow.DataDir = filepath.Join(base, "data")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithReadyAttempts overrides the readiness poll bound on the test config.
func WithReadyAttempts(attempts int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Identity.ReadyAttempts = attempts
	}
}

// WithConfirmationDepth overrides the confirmation depth on the test config.
func WithConfirmationDepth(depth uint64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Chain.ConfirmationDepth = depth
	}
}
