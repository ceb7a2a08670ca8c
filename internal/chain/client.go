package chain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"folio/internal/book"
	"folio/internal/config"
	"folio/internal/logging"
	"folio/internal/metadata"
	"folio/internal/services"
)

// Backend is the subset of an Ethereum node binding the client needs. It is
// satisfied by *ethclient.Client and faked in tests.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BlockNumber(ctx context.Context) (uint64, error)
}

// Client is a thin request/response binding to the book registry contract:
// read-only lookups plus the signed mint call.
type Client struct {
	backend  Backend
	address  common.Address
	contract *bind.BoundContract
	logger   *slog.Logger

	confirmDepth   uint64
	confirmTimeout time.Duration
	confirmPoll    time.Duration
}

// NewClient binds the registry contract at the configured address.
func NewClient(cfg *config.Config, backend Backend, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	address := common.HexToAddress(cfg.Chain.ContractAddress)
	return &Client{
		backend:        backend,
		address:        address,
		contract:       bind.NewBoundContract(address, registryABI, backend, backend, backend),
		logger:         logger,
		confirmDepth:   cfg.Chain.ConfirmationDepth,
		confirmTimeout: time.Duration(cfg.Chain.ConfirmTimeoutSeconds) * time.Second,
		confirmPoll:    time.Duration(cfg.Chain.ConfirmPollSeconds) * time.Second,
	}
}

type bookMetadataTuple struct {
	Title    string
	Author   string
	MintedAt *big.Int
}

// Lookup returns a fresh read snapshot for the ISBN. An undeployed contract
// address is surfaced as a distinct configuration error: method calls against
// empty code produce decode errors indistinguishable from "book not found".
// When the ISBN does not exist no detail call is made.
func (c *Client) Lookup(ctx context.Context, isbn string) (book.Record, error) {
	record := book.Record{ISBN: isbn}

	code, err := c.backend.CodeAt(ctx, c.address, nil)
	if err != nil {
		return record, services.Wrap(nil, "chain", "lookup", "read contract code", err)
	}
	if len(code) == 0 {
		return record, services.Wrap(services.ErrContractNotDeployed, "chain", "lookup", c.address.Hex(), nil)
	}

	var existsOut []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &existsOut, "isbnExists", isbn); err != nil {
		return record, services.Wrap(nil, "chain", "lookup", "isbnExists", err)
	}
	exists := *abi.ConvertType(existsOut[0], new(bool)).(*bool)
	if !exists {
		return record, nil
	}

	var detailOut []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &detailOut, "getBookByISBN", isbn); err != nil {
		return record, services.Wrap(nil, "chain", "lookup", "getBookByISBN", err)
	}
	tokenID := *abi.ConvertType(detailOut[0], new(*big.Int)).(**big.Int)
	owner := *abi.ConvertType(detailOut[1], new(common.Address)).(*common.Address)
	meta := *abi.ConvertType(detailOut[2], new(bookMetadataTuple)).(*bookMetadataTuple)

	record.Exists = true
	record.TokenID = tokenID.String()
	record.Owner = owner.Hex()
	record.Metadata = &book.Metadata{
		Title:    meta.Title,
		Author:   meta.Author,
		MintedAt: time.Unix(meta.MintedAt.Int64(), 0).UTC(),
	}
	return record, nil
}

// Mint submits the state-changing registry call through the caller-supplied
// signer. The ref parameter being a distinct type enforces that a mint never
// reaches the chain without a successfully published document. Mint is not
// idempotent: a duplicate ISBN is rejected by the contract's uniqueness
// check and surfaced with the duplicate marker.
func (c *Client) Mint(signer *bind.TransactOpts, to common.Address, req book.MintRequest, ref metadata.Ref) (*TxHandle, error) {
	if signer == nil {
		return nil, services.Wrap(services.ErrNotConnected, "chain", "mint", "signer required", nil)
	}
	if strings.TrimSpace(string(ref)) == "" {
		return nil, services.Wrap(services.ErrInvalidInput, "chain", "mint", "metadata reference required", nil)
	}

	tx, err := c.contract.Transact(signer, "mintBook", to, req.ISBN, req.Title, req.Author, string(ref))
	if err != nil {
		return nil, c.classifyMintError(req.ISBN, err)
	}

	c.logger.Info("mint submitted",
		logging.String(logging.FieldISBN, req.ISBN),
		logging.String("tx_hash", tx.Hash().Hex()),
		logging.String("to", to.Hex()))

	return &TxHandle{
		hash:    tx.Hash(),
		backend: c.backend,
		logger:  c.logger,
		depth:   c.confirmDepth,
		timeout: c.confirmTimeout,
		poll:    c.confirmPoll,
	}, nil
}

func (c *Client) classifyMintError(isbn string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "already exists") || strings.Contains(msg, "already minted") {
		return services.Wrap(services.ErrDuplicateISBN, "chain", "mint", isbn, err)
	}
	return services.Wrap(services.ErrTransactionFailed, "chain", "mint", fmt.Sprintf("submit for %s", isbn), err)
}
