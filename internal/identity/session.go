package identity

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"folio/internal/config"
	"folio/internal/logging"
	"folio/internal/retry"
	"folio/internal/services"
)

// State represents the lifecycle of a wallet session.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	StateReady         State = "ready"
	StateConnecting    State = "connecting"
	StateConnected     State = "connected"
	StateFailed        State = "failed"
)

// Session owns the provider connection state. It is the only component that
// mutates it; the orchestrator drives it exclusively through the exported
// operations. Invariant: the address is set if and only if the state is
// StateConnected.
type Session struct {
	provider     Provider
	chainID      *big.Int
	logger       *slog.Logger
	defaultLogin string

	readyAttempts int
	readyDelay    time.Duration

	mu      sync.Mutex
	state   State
	wallet  Wallet
	address common.Address
}

// NewSession wraps a provider in the readiness state machine. The session
// starts Uninitialized; call Initialize once at process start.
func NewSession(cfg *config.Config, provider Provider, logger *slog.Logger) *Session {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Session{
		provider:      provider,
		chainID:       big.NewInt(cfg.Chain.ChainID),
		logger:        logger,
		defaultLogin:  cfg.Identity.DefaultLogin,
		readyAttempts: cfg.Identity.ReadyAttempts,
		readyDelay:    time.Duration(cfg.Identity.ReadyDelayMS) * time.Millisecond,
		state:         StateUninitialized,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Initialize kicks off the provider's asynchronous setup. The session stays
// Initializing until PollReadiness observes the provider ready; some
// integrations finish adapter setup well after Init returns.
func (s *Session) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateUninitialized {
		s.mu.Unlock()
		return nil
	}
	s.state = StateInitializing
	s.mu.Unlock()

	if err := s.provider.Init(ctx); err != nil {
		s.mu.Lock()
		s.state = StateFailed
		s.mu.Unlock()
		return fmt.Errorf("provider init: %w", err)
	}
	s.PollReadiness()
	return nil
}

// PollReadiness reads the provider's readiness without side effects on the
// provider. It never panics outward; any internal failure is treated as "not
// ready". Safe to call repeatedly and concurrently.
func (s *Session) PollReadiness() (ready bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("provider readiness probe panicked",
				logging.Any("panic", r))
			ready = false
		}
	}()
	ready = s.provider.Ready()

	s.mu.Lock()
	defer s.mu.Unlock()
	if ready && (s.state == StateUninitialized || s.state == StateInitializing) {
		s.state = StateReady
	}
	return ready
}

// Connect establishes the wallet connection. Preconditions: the provider must
// be ready (callers observing not-ready should use RetryConnect rather than
// calling into the provider). Connecting while already Connected is a no-op
// that returns the cached address. On failure the session moves to Failed and
// the error surfaces to the caller; nothing is retried at this layer.
func (s *Session) Connect(ctx context.Context, loginMethod string) (common.Address, error) {
	s.mu.Lock()
	if s.state == StateConnected {
		addr := s.address
		s.mu.Unlock()
		return addr, nil
	}
	s.mu.Unlock()

	if !s.PollReadiness() {
		return common.Address{}, services.Wrap(services.ErrNotReady, "identity", "connect", "provider still initializing", nil)
	}
	if loginMethod == "" {
		loginMethod = s.defaultLogin
	}

	s.mu.Lock()
	s.state = StateConnecting
	s.mu.Unlock()

	s.logger.Info("connecting wallet", logging.String("login_method", loginMethod))
	wallet, err := s.provider.Connect(ctx, loginMethod)
	if err != nil {
		s.fail()
		return common.Address{}, services.Wrap(nil, "identity", "connect", "provider connect", err)
	}
	address := wallet.Address()
	if address == (common.Address{}) {
		s.fail()
		return common.Address{}, services.Wrap(nil, "identity", "connect", "provider returned zero wallet address", nil)
	}

	s.mu.Lock()
	s.wallet = wallet
	s.address = address
	s.state = StateConnected
	s.mu.Unlock()

	s.logger.Info("wallet connected", logging.String("address", address.Hex()))
	return address, nil
}

// RetryConnect is the policy wrapper around Connect: it polls readiness with
// the configured bound (waiting between attempts), then connects. If the
// provider never reports ready the call fails with the not-ready marker and
// the provider's connect entrypoint is never invoked.
func (s *Session) RetryConnect(ctx context.Context, loginMethod string) (common.Address, error) {
	if s.State() == StateConnected {
		return s.Connect(ctx, loginMethod)
	}

	err := retry.Bounded(ctx, s.readyAttempts, s.readyDelay, func() error {
		if s.PollReadiness() {
			return nil
		}
		return services.ErrNotReady
	})
	if err != nil {
		return common.Address{}, services.Wrap(services.ErrNotReady, "identity", "retry connect",
			fmt.Sprintf("provider not ready after %d attempts", s.readyAttempts), nil)
	}
	return s.Connect(ctx, loginMethod)
}

// CurrentAddress returns the connected wallet address, if any.
func (s *Session) CurrentAddress() (common.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateConnected {
		return common.Address{}, false
	}
	return s.address, true
}

// CurrentSigner derives the chain-compatible signer from the session's raw
// wallet handle. It fails with the not-connected marker unless the session is
// Connected.
func (s *Session) CurrentSigner(ctx context.Context) (*bind.TransactOpts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateConnected || s.wallet == nil {
		return nil, services.Wrap(services.ErrNotConnected, "identity", "signer", string(s.state), nil)
	}
	wallet := s.wallet
	from := s.address
	return &bind.TransactOpts{
		From:    from,
		Context: ctx,
		Signer: func(addr common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if addr != from {
				return nil, fmt.Errorf("sign: unexpected address %s", addr.Hex())
			}
			return wallet.SignTx(ctx, tx)
		},
	}, nil
}

// Logout tears the session down explicitly: the provider handle is closed and
// the session returns to Uninitialized. The session may be re-initialized
// afterwards.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.wallet = nil
	s.address = common.Address{}
	s.state = StateUninitialized
	s.mu.Unlock()
	if err := s.provider.Close(); err != nil {
		return fmt.Errorf("provider close: %w", err)
	}
	return nil
}

func (s *Session) fail() {
	s.mu.Lock()
	s.wallet = nil
	s.address = common.Address{}
	s.state = StateFailed
	s.mu.Unlock()
}
