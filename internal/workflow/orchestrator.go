package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"folio/internal/book"
	"folio/internal/chain"
	"folio/internal/identity"
	"folio/internal/journal"
	"folio/internal/logging"
	"folio/internal/metadata"
	"folio/internal/services"
)

// ErrBusy rejects a new invocation while another verify or mint is in
// flight. The workflow runs at most one operation per session.
var ErrBusy = errors.New("workflow busy")

// Publisher is the metadata upload dependency.
type Publisher interface {
	Publish(ctx context.Context, req book.MintRequest) (metadata.Ref, error)
}

// TxWaiter is the pending-transaction half of the registry dependency.
type TxWaiter interface {
	Hash() common.Hash
	AwaitConfirmation(ctx context.Context) error
}

// Registry is the chain dependency: read lookups and the signed mint call.
type Registry interface {
	Lookup(ctx context.Context, isbn string) (book.Record, error)
	Mint(signer *bind.TransactOpts, to common.Address, req book.MintRequest, ref metadata.Ref) (TxWaiter, error)
}

// WrapRegistry adapts the concrete chain client to the Registry interface.
func WrapRegistry(client *chain.Client) Registry {
	return registryAdapter{client}
}

type registryAdapter struct {
	client *chain.Client
}

func (r registryAdapter) Lookup(ctx context.Context, isbn string) (book.Record, error) {
	return r.client.Lookup(ctx, isbn)
}

func (r registryAdapter) Mint(signer *bind.TransactOpts, to common.Address, req book.MintRequest, ref metadata.Ref) (TxWaiter, error) {
	return r.client.Mint(signer, to, req, ref)
}

// Orchestrator sequences the wallet session, metadata publisher, and chain
// client into the verify and mint operations, and owns the single workflow
// state. It enforces strict ordering: no publish before a confirmed wallet
// identity, no chain write without a published metadata reference.
type Orchestrator struct {
	session   *identity.Session
	publisher Publisher
	registry  Registry
	journal   *journal.Store
	logger    *slog.Logger

	mu         sync.Mutex
	state      State
	lastRecord *book.Record
	lastErr    error
	subs       map[int]chan StateChange
	nextSubID  int
}

// Option configures optional Orchestrator behavior.
type Option func(*Orchestrator)

// WithJournal enables persistent invocation history. The journal is a read
// model; write failures are logged and never fail the user's operation.
func WithJournal(store *journal.Store) Option {
	return func(o *Orchestrator) {
		o.journal = store
	}
}

// New constructs the orchestrator in the Idle state.
func New(session *identity.Session, publisher Publisher, registry Registry, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	o := &Orchestrator{
		session:   session,
		publisher: publisher,
		registry:  registry,
		logger:    logger,
		state:     StateIdle,
		subs:      make(map[int]chan StateChange),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CurrentState returns the workflow state.
func (o *Orchestrator) CurrentState() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastRecord returns the most recent verification snapshot, if any.
func (o *Orchestrator) LastRecord() (book.Record, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastRecord == nil {
		return book.Record{}, false
	}
	return *o.lastRecord, true
}

// LastError returns the error that moved the workflow into StateError.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Verify looks the ISBN up on-chain and returns a fresh snapshot. It never
// touches the publisher or the chain write path; an ISBN that was never
// minted yields Exists=false with no further calls.
func (o *Orchestrator) Verify(ctx context.Context, isbn string) (book.Record, error) {
	if !book.ValidISBN(isbn) {
		return book.Record{}, services.Wrap(services.ErrInvalidInput, "workflow", "verify", "isbn", nil)
	}

	invID, err := o.begin(ctx, "verify", isbn, StateVerifying)
	if err != nil {
		return book.Record{}, err
	}
	ctx = services.WithInvocationID(services.WithISBN(ctx, isbn), invID)

	record, err := o.registry.Lookup(ctx, isbn)
	if err != nil {
		o.finishError(ctx, invID, err)
		return book.Record{}, err
	}

	o.mu.Lock()
	o.lastRecord = &record
	o.mu.Unlock()
	o.recordSnapshot(ctx, invID, record)
	o.setState(ctx, invID, StateIdle, "verified")
	o.finish(ctx, invID, journal.OutcomeSuccess, "")
	return record, nil
}

// Mint drives the full pipeline: connect (if needed), publish metadata,
// submit the transaction, await confirmation, then automatically re-verify
// so the last record reflects the freshly minted token. Any stage failure
// halts the pipeline immediately; prior stages are not rolled back (an
// uploaded document with no mint is acceptable orphaned state).
func (o *Orchestrator) Mint(ctx context.Context, isbn, loginMethod string) (book.Record, error) {
	if !book.ValidISBN(isbn) {
		return book.Record{}, services.Wrap(services.ErrInvalidInput, "workflow", "mint", "isbn", nil)
	}

	invID, err := o.begin(ctx, "mint", isbn, StateConnecting)
	if err != nil {
		return book.Record{}, err
	}
	ctx = services.WithInvocationID(services.WithISBN(ctx, isbn), invID)

	address, err := o.connect(ctx, loginMethod)
	if err != nil {
		o.finishError(ctx, invID, err)
		return book.Record{}, err
	}

	req := book.NewMintRequest(isbn, "", "")

	o.setState(ctx, invID, StatePublishing, "")
	ref, err := o.publisher.Publish(services.WithStage(ctx, "publish"), req)
	if err != nil {
		o.finishError(ctx, invID, err)
		return book.Record{}, err
	}

	o.setState(ctx, invID, StateSubmitting, string(ref))
	signer, err := o.session.CurrentSigner(ctx)
	if err != nil {
		o.finishError(ctx, invID, err)
		return book.Record{}, err
	}
	tx, err := o.registry.Mint(signer, address, req, ref)
	if err != nil {
		o.finishError(ctx, invID, err)
		return book.Record{}, err
	}

	o.setState(ctx, invID, StateConfirming, tx.Hash().Hex())
	if err := tx.AwaitConfirmation(services.WithStage(ctx, "confirm")); err != nil {
		o.finishError(ctx, invID, err)
		return book.Record{}, err
	}

	o.setState(ctx, invID, StateSuccess, tx.Hash().Hex())
	o.finish(ctx, invID, journal.OutcomeSuccess, "")

	return o.reverify(ctx, invID, isbn), nil
}

// connect drives the Connecting stage. The wallet identity must be confirmed
// before anything with side effects runs; on failure neither the publisher
// nor the chain client has been touched.
func (o *Orchestrator) connect(ctx context.Context, loginMethod string) (common.Address, error) {
	if address, ok := o.session.CurrentAddress(); ok {
		return address, nil
	}
	return o.session.RetryConnect(services.WithStage(ctx, "connect"), loginMethod)
}

// reverify refreshes the last record after a successful mint. Read-after-
// write consistency here is the orchestrator's courtesy, not a chain
// guarantee; a failed refresh leaves the mint successful and logs instead.
func (o *Orchestrator) reverify(ctx context.Context, invID, isbn string) book.Record {
	record, err := o.registry.Lookup(services.WithStage(ctx, "reverify"), isbn)
	if err != nil {
		o.logger.Warn("post-mint verification failed",
			logging.String(logging.FieldInvocationID, invID),
			logging.String(logging.FieldISBN, isbn),
			logging.Error(err))
		return book.Record{ISBN: isbn, Exists: true}
	}
	o.mu.Lock()
	o.lastRecord = &record
	o.mu.Unlock()
	o.recordSnapshot(ctx, invID, record)
	return record
}

// begin performs the busy check and the transition out of Idle/Success/Error
// atomically, and opens the journal invocation.
func (o *Orchestrator) begin(ctx context.Context, kind, isbn string, first State) (string, error) {
	o.mu.Lock()
	if o.state.Busy() {
		state := o.state
		o.mu.Unlock()
		return "", services.Wrap(ErrBusy, "workflow", kind, string(state), nil)
	}
	from := o.state
	o.state = first
	o.lastErr = nil
	o.notifyLocked(from, first, "")
	o.mu.Unlock()

	invID := ""
	if o.journal != nil {
		id, err := o.journal.BeginInvocation(ctx, kind, isbn)
		if err != nil {
			o.logger.Warn("journal begin failed", logging.Error(err))
		} else {
			invID = id
			if err := o.journal.RecordTransition(ctx, invID, string(from), string(first), kind); err != nil {
				o.logger.Warn("journal transition failed", logging.Error(err))
			}
		}
	}

	o.logger.Info("workflow started",
		logging.String("kind", kind),
		logging.String(logging.FieldISBN, isbn),
		logging.String(logging.FieldInvocationID, invID),
		logging.String(logging.FieldState, string(first)))
	return invID, nil
}

func (o *Orchestrator) setState(ctx context.Context, invID string, to State, note string) {
	o.mu.Lock()
	from := o.state
	o.state = to
	o.notifyLocked(from, to, invID)
	o.mu.Unlock()

	o.logger.Info("workflow state changed",
		logging.String(logging.FieldInvocationID, invID),
		logging.String("from", string(from)),
		logging.String(logging.FieldState, string(to)))
	if o.journal != nil && invID != "" {
		if err := o.journal.RecordTransition(ctx, invID, string(from), string(to), note); err != nil {
			o.logger.Warn("journal transition failed", logging.Error(err))
		}
	}
}

func (o *Orchestrator) finishError(ctx context.Context, invID string, cause error) {
	o.mu.Lock()
	from := o.state
	o.state = StateError
	o.lastErr = cause
	o.notifyLocked(from, StateError, invID)
	o.mu.Unlock()

	o.logger.Error("workflow failed",
		logging.String(logging.FieldInvocationID, invID),
		logging.String("from", string(from)),
		logging.Bool("recoverable", services.Recoverable(cause)),
		logging.Error(cause))
	if o.journal != nil && invID != "" {
		if err := o.journal.RecordTransition(ctx, invID, string(from), string(StateError), cause.Error()); err != nil {
			o.logger.Warn("journal transition failed", logging.Error(err))
		}
	}
	o.finish(ctx, invID, journal.OutcomeError, cause.Error())
}

func (o *Orchestrator) finish(ctx context.Context, invID, outcome, errMsg string) {
	if o.journal == nil || invID == "" {
		return
	}
	if err := o.journal.FinishInvocation(ctx, invID, outcome, errMsg); err != nil {
		o.logger.Warn("journal finish failed", logging.Error(err))
	}
}

func (o *Orchestrator) recordSnapshot(ctx context.Context, invID string, record book.Record) {
	if o.journal == nil || invID == "" {
		return
	}
	if err := o.journal.RecordSnapshot(ctx, invID, record); err != nil {
		o.logger.Warn("journal snapshot failed", logging.Error(err))
	}
}
