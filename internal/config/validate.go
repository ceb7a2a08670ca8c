package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var knownProviders = map[string]struct{}{
	"modal":   {},
	"nomodal": {},
	"hosted":  {},
}

// Validate reports configuration problems that would otherwise surface as
// confusing runtime failures deep inside the workflow.
func (c *Config) Validate() error {
	var problems []string

	if c.Chain.RPCURL == "" {
		problems = append(problems, "chain.rpc_url is required")
	}
	if c.Chain.ContractAddress == "" {
		problems = append(problems, "chain.contract_address is required")
	} else if !common.IsHexAddress(c.Chain.ContractAddress) {
		problems = append(problems, fmt.Sprintf("chain.contract_address %q is not a hex address", c.Chain.ContractAddress))
	}
	if c.Chain.ChainID <= 0 {
		problems = append(problems, "chain.chain_id must be positive")
	}
	if _, ok := knownProviders[c.Identity.Provider]; !ok {
		problems = append(problems, fmt.Sprintf("identity.provider %q is not one of modal, nomodal, hosted", c.Identity.Provider))
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not one of text, json", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
