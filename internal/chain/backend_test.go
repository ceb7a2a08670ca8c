package chain_test

import (
	"context"
	"errors"
	"math/big"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"folio/internal/chain"
)

type bookDetail struct {
	tokenID  *big.Int
	owner    common.Address
	title    string
	author   string
	mintedAt int64
}

type bookMetadataTuple struct {
	Title    string
	Author   string
	MintedAt *big.Int
}

// fakeBackend scripts node responses by decoding calls through the registry
// ABI, the same way a node would.
type fakeBackend struct {
	mu sync.Mutex

	code   []byte
	exists map[string]bool
	books  map[string]bookDetail

	head           uint64
	inclusionBlock uint64
	receiptAfter   int
	receiptStatus  uint64

	estimateErr error
	sendErr     error

	callCount   int
	existsCalls int
	detailCalls int
	sendCalls   int
	sentTx      *types.Transaction
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		code:           []byte{0x60, 0x80},
		exists:         make(map[string]bool),
		books:          make(map[string]bookDetail),
		head:           100,
		inclusionBlock: 100,
		receiptStatus:  types.ReceiptStatusSuccessful,
	}
}

func (f *fakeBackend) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code, nil
}

func (f *fakeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callCount++

	parsed := chain.RegistryABI()
	method, err := parsed.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	isbn := args[0].(string)

	switch method.Name {
	case "isbnExists":
		f.existsCalls++
		return method.Outputs.Pack(f.exists[isbn])
	case "getBookByISBN":
		f.detailCalls++
		detail, ok := f.books[isbn]
		if !ok {
			return nil, errors.New("execution reverted: book not found")
		}
		return method.Outputs.Pack(detail.tokenID, detail.owner, bookMetadataTuple{
			Title:    detail.title,
			Author:   detail.author,
			MintedAt: big.NewInt(detail.mintedAt),
		})
	default:
		return nil, errors.New("unexpected method " + method.Name)
	}
}

func (f *fakeBackend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return f.code, nil
}

func (f *fakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return 1, nil
}

func (f *fakeBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &types.Header{Number: new(big.Int).SetUint64(f.head)}, nil
}

func (f *fakeBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.estimateErr != nil {
		return 0, f.estimateErr
	}
	return 120_000, nil
}

func (f *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sendCalls++
	f.sentTx = tx
	return nil
}

func (f *fakeBackend) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (f *fakeBackend) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("subscriptions not supported")
}

func (f *fakeBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.receiptAfter > 0 {
		f.receiptAfter--
		return nil, ethereum.NotFound
	}
	return &types.Receipt{
		Status:      f.receiptStatus,
		BlockNumber: new(big.Int).SetUint64(f.inclusionBlock),
	}, nil
}

func (f *fakeBackend) BlockNumber(ctx context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.head, nil
}

func (f *fakeBackend) calls() (total, exists, detail int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callCount, f.existsCalls, f.detailCalls
}
