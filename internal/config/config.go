package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Chain contains the blockchain node and contract configuration.
type Chain struct {
	ChainID               int64  `toml:"chain_id"`
	RPCURL                string `toml:"rpc_url"`
	ContractAddress       string `toml:"contract_address"`
	ConfirmationDepth     uint64 `toml:"confirmation_depth"`
	ConfirmTimeoutSeconds int    `toml:"confirm_timeout_seconds"`
	ConfirmPollSeconds    int    `toml:"confirm_poll_seconds"`
}

// Identity contains the wallet provider configuration.
type Identity struct {
	// Provider selects the adapter integration: "modal", "nomodal", or
	// "hosted". All three expose the same readiness/connect capability.
	Provider      string `toml:"provider"`
	ClientID      string `toml:"client_id"`
	Network       string `toml:"network"`
	ReadyAttempts int    `toml:"ready_attempts"`
	ReadyDelayMS  int    `toml:"ready_delay_ms"`
	DefaultLogin  string `toml:"default_login"`
}

// IPFS contains the metadata pinning endpoint configuration.
type IPFS struct {
	BaseURL               string `toml:"base_url"`
	APIKey                string `toml:"api_key"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// Workflow contains orchestrator-level settings.
type Workflow struct {
	// DataDir holds the journal database, its lock file, and the log file.
	DataDir string `toml:"data_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the minting workflow.
//
// Configuration sections by subsystem:
//   - Chain: node endpoint, registry contract, confirmation policy
//   - Identity: wallet provider adapter and readiness poll bounds
//   - IPFS: metadata pinning endpoint and credentials
//   - Workflow: journal data directory
//   - Logging: log format and level
type Config struct {
	Chain    Chain    `toml:"chain"`
	Identity Identity `toml:"identity"`
	IPFS     IPFS     `toml:"ipfs"`
	Workflow Workflow `toml:"workflow"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/folio/config.toml")
}

// Load parses and validates a configuration file. A missing file falls back
// to repository defaults, which still fail validation until the chain
// endpoint and contract address are provided. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	if resolved != "" {
		file, err := os.Open(resolved)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("open config: %w", err)
			}
		} else {
			defer file.Close()
			decoder := toml.NewDecoder(file)
			if err := decoder.Decode(&cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteSample writes the embedded sample configuration to the target path.
func WriteSample(path string) error {
	resolved, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	return os.WriteFile(resolved, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates the data directory the journal and log file need.
func (c *Config) EnsureDirectories() error {
	dir := strings.TrimSpace(c.Workflow.DataDir)
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", trimmed, err)
	}
	return abs, nil
}
