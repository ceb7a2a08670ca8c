package config

import (
	"os"
	"strings"
)

// normalize expands paths, applies environment fallbacks, and canonicalizes
// enumerated fields before validation runs.
func (c *Config) normalize() error {
	dataDir, err := expandPath(c.Workflow.DataDir)
	if err != nil {
		return err
	}
	c.Workflow.DataDir = dataDir

	if strings.TrimSpace(c.IPFS.APIKey) == "" {
		c.IPFS.APIKey = strings.TrimSpace(os.Getenv("FOLIO_IPFS_API_KEY"))
	}
	if strings.TrimSpace(c.Identity.ClientID) == "" {
		c.Identity.ClientID = strings.TrimSpace(os.Getenv("FOLIO_IDENTITY_CLIENT_ID"))
	}

	c.Chain.RPCURL = strings.TrimSpace(c.Chain.RPCURL)
	c.Chain.ContractAddress = strings.TrimSpace(c.Chain.ContractAddress)
	c.IPFS.BaseURL = strings.TrimRight(strings.TrimSpace(c.IPFS.BaseURL), "/")
	c.Identity.Provider = strings.ToLower(strings.TrimSpace(c.Identity.Provider))
	c.Identity.DefaultLogin = strings.ToLower(strings.TrimSpace(c.Identity.DefaultLogin))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if c.Chain.ConfirmationDepth == 0 {
		c.Chain.ConfirmationDepth = defaultConfirmationDepth
	}
	if c.Chain.ConfirmTimeoutSeconds <= 0 {
		c.Chain.ConfirmTimeoutSeconds = defaultConfirmTimeoutSeconds
	}
	if c.Chain.ConfirmPollSeconds <= 0 {
		c.Chain.ConfirmPollSeconds = defaultConfirmPollSeconds
	}
	if c.Identity.ReadyAttempts <= 0 {
		c.Identity.ReadyAttempts = defaultReadyAttempts
	}
	if c.Identity.ReadyDelayMS <= 0 {
		c.Identity.ReadyDelayMS = defaultReadyDelayMS
	}
	if c.IPFS.RequestTimeoutSeconds <= 0 {
		c.IPFS.RequestTimeoutSeconds = defaultIPFSTimeoutSeconds
	}
	return nil
}
