package eth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sisu-network/lib/log"
)

const (
	// Number of consecutive rpc failures tolerated before a watch gives up.
	MaxReceiptRetry = 5
)

// Confirmer waits for transactions to be mined.
type Confirmer interface {
	// WaitForTransaction blocks until the tx has `confirmations` blocks mined on top of (and
	// including) the block it was included in. When confirmations is 0 it does not block and
	// returns a nil receipt if the tx is not mined yet.
	WaitForTransaction(ctx context.Context, txHash common.Hash, confirmations uint64) (*ethtypes.Receipt, error)
}

type defaultConfirmer struct {
	chain     string
	client    EthClient
	retryTime time.Duration
}

func NewConfirmer(chain string, client EthClient, pollInterval time.Duration) Confirmer {
	return &defaultConfirmer{
		chain:     chain,
		client:    client,
		retryTime: pollInterval,
	}
}

func (c *defaultConfirmer) WaitForTransaction(ctx context.Context, txHash common.Hash,
	confirmations uint64) (*ethtypes.Receipt, error) {
	retry := 0

	for {
		receipt, err := c.getReceipt(ctx, txHash)
		switch {
		case err == nil && receipt != nil:
			if confirmations == 0 {
				return receipt, nil
			}

			var head uint64
			head, err = c.getBlockNumber(ctx)
			if err == nil {
				retry = 0
				if isConfirmed(receipt, head, confirmations) {
					log.Verbosef("Tx %s on chain %s is confirmed at block %d", txHash.Hex(), c.chain,
						receipt.BlockNumber.Int64())
					return receipt, nil
				}
			}

		case err == nil || errors.Is(err, ethereum.NotFound):
			// Not mined yet.
			if confirmations == 0 {
				return nil, nil
			}
			err = nil
			retry = 0
		}

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			if confirmations == 0 {
				return nil, err
			}

			if retry == MaxReceiptRetry {
				log.Errorf("cannot get receipt for tx with hash %s on chain %s, err = %v", txHash.Hex(), c.chain, err)
				return nil, fmt.Errorf("cannot get receipt after %d retries: %w", retry, err)
			}
			retry++
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryTime):
		}
	}
}

func (c *defaultConfirmer) getReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, RpcTimeOut)
	defer cancel()

	return c.client.TransactionReceipt(ctx, txHash)
}

func (c *defaultConfirmer) getBlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, RpcTimeOut)
	defer cancel()

	return c.client.BlockNumber(ctx)
}

func isConfirmed(receipt *ethtypes.Receipt, head uint64, confirmations uint64) bool {
	if receipt.BlockNumber == nil {
		return false
	}

	included := receipt.BlockNumber.Uint64()
	if head < included {
		return false
	}

	return head-included+1 >= confirmations
}
