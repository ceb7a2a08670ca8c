package config

const (
	defaultDataDir               = "~/.local/share/folio"
	defaultLogFormat             = "text"
	defaultLogLevel              = "info"
	defaultConfirmationDepth     = 1
	defaultConfirmTimeoutSeconds = 120
	defaultConfirmPollSeconds    = 2
	defaultIdentityProvider      = "modal"
	defaultIdentityNetwork       = "sapphire_devnet"
	defaultReadyAttempts         = 3
	defaultReadyDelayMS          = 2000
	defaultIPFSBaseURL           = "https://api.tatum.io/v3/ipfs"
	defaultIPFSTimeoutSeconds    = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Chain: Chain{
			ConfirmationDepth:     defaultConfirmationDepth,
			ConfirmTimeoutSeconds: defaultConfirmTimeoutSeconds,
			ConfirmPollSeconds:    defaultConfirmPollSeconds,
		},
		Identity: Identity{
			Provider:      defaultIdentityProvider,
			Network:       defaultIdentityNetwork,
			ReadyAttempts: defaultReadyAttempts,
			ReadyDelayMS:  defaultReadyDelayMS,
		},
		IPFS: IPFS{
			BaseURL:               defaultIPFSBaseURL,
			RequestTimeoutSeconds: defaultIPFSTimeoutSeconds,
		},
		Workflow: Workflow{
			DataDir: defaultDataDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
