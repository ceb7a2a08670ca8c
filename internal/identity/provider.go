package identity

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"folio/internal/config"
)

// Wallet is the raw handle a provider yields after a successful connect. It
// can report its address and authorize state-changing calls on its behalf.
type Wallet interface {
	Address() common.Address
	SignTx(ctx context.Context, tx *types.Transaction) (*types.Transaction, error)
}

// Provider is the boundary to a third-party identity/wallet SDK. The modal,
// no-modal, and hosted integrations are variants of one polymorphic
// capability: report readiness, connect with a login method, hand back a
// wallet.
//
// Ready must be safe to call repeatedly and concurrently and reflects the
// status of the specific login adapter in use, not just the SDK shell.
// Providers whose adapters initialize asynchronously simply report false
// until setup completes; the session layer owns the poll policy.
type Provider interface {
	Init(ctx context.Context) error
	Ready() bool
	Connect(ctx context.Context, loginMethod string) (Wallet, error)
	Close() error
}

// Factory constructs a provider adapter from configuration.
type Factory func(cfg config.Identity, chainID int64) (Provider, error)

var (
	factoryMu sync.RWMutex
	factories = map[string]Factory{}
)

// RegisterAdapter makes a provider integration selectable by name in
// [identity] provider. The embedding application registers the adapters it
// ships; registration is typically done from an init function.
func RegisterAdapter(name string, factory Factory) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || factory == nil {
		return
	}
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factories[name] = factory
}

// NewProvider builds the configured provider adapter.
func NewProvider(cfg *config.Config) (Provider, error) {
	factoryMu.RLock()
	factory, ok := factories[cfg.Identity.Provider]
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	factoryMu.RUnlock()

	if !ok {
		sort.Strings(names)
		return nil, fmt.Errorf("identity provider %q not registered (registered: %s)",
			cfg.Identity.Provider, strings.Join(names, ", "))
	}
	return factory(cfg.Identity, cfg.Chain.ChainID)
}
