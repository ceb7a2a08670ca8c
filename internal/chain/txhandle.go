package chain

import (
	"context"
	"errors"
	"log/slog"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"folio/internal/logging"
	"folio/internal/services"
)

// TxHandle tracks a submitted transaction until it reaches the configured
// confirmation depth.
type TxHandle struct {
	hash    common.Hash
	backend Backend
	logger  *slog.Logger
	depth   uint64
	timeout time.Duration
	poll    time.Duration
}

// Hash returns the submitted transaction hash.
func (h *TxHandle) Hash() common.Hash {
	return h.hash
}

// AwaitConfirmation blocks until the transaction is included and buried to
// the confirmation depth, the wait budget runs out, or the context is
// cancelled. A timeout does not mean the transaction failed: it may still
// confirm later, so callers must re-verify before retrying a mint.
func (h *TxHandle) AwaitConfirmation(ctx context.Context) error {
	deadline := time.NewTimer(h.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(h.poll)
	defer ticker.Stop()

	for {
		confirmed, err := h.checkOnce(ctx)
		if err != nil {
			return err
		}
		if confirmed {
			return nil
		}

		select {
		case <-ctx.Done():
			return services.Wrap(services.ErrTransactionTimeout, "chain", "confirm", h.hash.Hex(), ctx.Err())
		case <-deadline.C:
			return services.Wrap(services.ErrTransactionTimeout, "chain", "confirm", h.hash.Hex(), nil)
		case <-ticker.C:
		}
	}
}

func (h *TxHandle) checkOnce(ctx context.Context) (bool, error) {
	receipt, err := h.backend.TransactionReceipt(ctx, h.hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return false, nil
		}
		// Transient RPC trouble; keep polling within the budget.
		h.logger.Debug("receipt poll failed", logging.Error(err),
			logging.String("tx_hash", h.hash.Hex()))
		return false, nil
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return false, services.Wrap(services.ErrTransactionFailed, "chain", "confirm",
			"transaction reverted: "+h.hash.Hex(), nil)
	}

	head, err := h.backend.BlockNumber(ctx)
	if err != nil {
		h.logger.Debug("head poll failed", logging.Error(err))
		return false, nil
	}
	included := receipt.BlockNumber.Uint64()
	if head < included {
		return false, nil
	}
	confirmations := head - included + 1
	if confirmations >= h.depth {
		h.logger.Info("transaction confirmed",
			logging.String("tx_hash", h.hash.Hex()),
			logging.Int64("block", receipt.BlockNumber.Int64()))
		return true, nil
	}
	return false, nil
}
