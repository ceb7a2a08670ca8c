package identity_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"folio/internal/identity"
	"folio/internal/logging"
	"folio/internal/services"
	"folio/internal/testsupport"
)

type fakeWallet struct {
	addr    common.Address
	signed  int
	signErr error
}

func (w *fakeWallet) Address() common.Address { return w.addr }

func (w *fakeWallet) SignTx(ctx context.Context, tx *types.Transaction) (*types.Transaction, error) {
	if w.signErr != nil {
		return nil, w.signErr
	}
	w.signed++
	return tx, nil
}

type fakeProvider struct {
	mu           sync.Mutex
	readyAfter   int
	polls        int
	panicOnReady bool
	initErr      error
	connectErr   error
	connectCalls int
	wallet       *fakeWallet
	closed       bool
}

func (p *fakeProvider) Init(ctx context.Context) error { return p.initErr }

func (p *fakeProvider) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.panicOnReady {
		panic("adapter map not populated")
	}
	p.polls++
	return p.polls > p.readyAfter
}

func (p *fakeProvider) Connect(ctx context.Context, loginMethod string) (identity.Wallet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connectCalls++
	if p.connectErr != nil {
		return nil, p.connectErr
	}
	return p.wallet, nil
}

func (p *fakeProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakeProvider) pollCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.polls
}

func (p *fakeProvider) connectCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connectCalls
}

var testAddress = common.HexToAddress("0x00000000000000000000000000000000000000b1")

func newTestSession(t *testing.T, provider identity.Provider) *identity.Session {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return identity.NewSession(cfg, provider, logging.NewNop())
}

func TestRetryConnectFailsWhenProviderNeverReady(t *testing.T) {
	provider := &fakeProvider{readyAfter: 100}
	session := newTestSession(t, provider)

	_, err := session.RetryConnect(context.Background(), "google")
	if !errors.Is(err, services.ErrNotReady) {
		t.Fatalf("expected not-ready marker, got %v", err)
	}
	if provider.connectCount() != 0 {
		t.Fatalf("provider connect must not run while not ready, called %d times", provider.connectCount())
	}
	if provider.pollCount() != 3 {
		t.Fatalf("expected 3 readiness polls, got %d", provider.pollCount())
	}
	if session.State() == identity.StateConnected {
		t.Fatal("session must not be connected")
	}
}

func TestRetryConnectSucceedsOnceProviderReady(t *testing.T) {
	provider := &fakeProvider{readyAfter: 1, wallet: &fakeWallet{addr: testAddress}}
	session := newTestSession(t, provider)

	addr, err := session.RetryConnect(context.Background(), "google")
	if err != nil {
		t.Fatalf("RetryConnect: %v", err)
	}
	if addr != testAddress {
		t.Fatalf("unexpected address %s", addr.Hex())
	}
	if session.State() != identity.StateConnected {
		t.Fatalf("expected connected state, got %s", session.State())
	}
	if got, ok := session.CurrentAddress(); !ok || got != testAddress {
		t.Fatalf("CurrentAddress mismatch: %s %v", got.Hex(), ok)
	}
}

func TestConnectIsNoOpWhenAlreadyConnected(t *testing.T) {
	provider := &fakeProvider{wallet: &fakeWallet{addr: testAddress}}
	session := newTestSession(t, provider)

	if _, err := session.Connect(context.Background(), "google"); err != nil {
		t.Fatalf("first connect: %v", err)
	}
	addr, err := session.Connect(context.Background(), "github")
	if err != nil {
		t.Fatalf("second connect: %v", err)
	}
	if addr != testAddress {
		t.Fatalf("expected cached address, got %s", addr.Hex())
	}
	if provider.connectCount() != 1 {
		t.Fatalf("expected a single provider connect, got %d", provider.connectCount())
	}
}

func TestConnectFailureMovesSessionToFailed(t *testing.T) {
	provider := &fakeProvider{connectErr: errors.New("popup dismissed")}
	session := newTestSession(t, provider)

	if _, err := session.Connect(context.Background(), "google"); err == nil {
		t.Fatal("expected connect error")
	}
	if session.State() != identity.StateFailed {
		t.Fatalf("expected failed state, got %s", session.State())
	}
	if _, ok := session.CurrentAddress(); ok {
		t.Fatal("failed session must not expose an address")
	}
}

func TestConnectRejectsZeroAddressWallet(t *testing.T) {
	provider := &fakeProvider{wallet: &fakeWallet{}}
	session := newTestSession(t, provider)

	if _, err := session.Connect(context.Background(), "google"); err == nil {
		t.Fatal("expected error for zero wallet address")
	}
	if session.State() != identity.StateFailed {
		t.Fatalf("expected failed state, got %s", session.State())
	}
}

func TestPollReadinessSwallowsProviderPanics(t *testing.T) {
	provider := &fakeProvider{panicOnReady: true}
	session := newTestSession(t, provider)

	if session.PollReadiness() {
		t.Fatal("panicking provider must read as not ready")
	}
}

func TestCurrentSignerRequiresConnection(t *testing.T) {
	provider := &fakeProvider{wallet: &fakeWallet{addr: testAddress}}
	session := newTestSession(t, provider)

	if _, err := session.CurrentSigner(context.Background()); !errors.Is(err, services.ErrNotConnected) {
		t.Fatalf("expected not-connected marker, got %v", err)
	}

	if _, err := session.Connect(context.Background(), "google"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	signer, err := session.CurrentSigner(context.Background())
	if err != nil {
		t.Fatalf("CurrentSigner: %v", err)
	}
	if signer.From != testAddress {
		t.Fatalf("signer From mismatch: %s", signer.From.Hex())
	}
	tx := types.NewTx(&types.LegacyTx{})
	if _, err := signer.Signer(testAddress, tx); err != nil {
		t.Fatalf("signer fn: %v", err)
	}
	if _, err := signer.Signer(common.HexToAddress("0xdead"), tx); err == nil {
		t.Fatal("signer must reject foreign addresses")
	}
}

func TestLogoutTearsDownSession(t *testing.T) {
	provider := &fakeProvider{wallet: &fakeWallet{addr: testAddress}}
	session := newTestSession(t, provider)

	if _, err := session.Connect(context.Background(), "google"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := session.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if session.State() != identity.StateUninitialized {
		t.Fatalf("expected uninitialized after logout, got %s", session.State())
	}
	if !provider.closed {
		t.Fatal("provider handle not closed")
	}
	if _, ok := session.CurrentAddress(); ok {
		t.Fatal("address must be cleared on logout")
	}
}

func TestInitializeMarksReadyProvider(t *testing.T) {
	provider := &fakeProvider{wallet: &fakeWallet{addr: testAddress}}
	session := newTestSession(t, provider)

	if err := session.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if session.State() != identity.StateReady {
		t.Fatalf("expected ready state, got %s", session.State())
	}
}
