package server

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sisu-network/dbridge/types"
	"github.com/sisu-network/lib/log"
)

const ApiNamespace = "dbridge"

type Processor interface {
	TrackTransfer(transfer *types.PendingTransfer) (<-chan *types.TrackUpdate, error)
	ReleaseTransfer(ctx context.Context, transfer *types.BridgeTransaction, currentChainId uint64) (*ethtypes.Transaction, error)
	PendingTransfers() []*types.PendingTransfer
}

type ApiHandler struct {
	processor Processor
}

func NewApi(processor Processor) *ApiHandler {
	return &ApiHandler{
		processor: processor,
	}
}

// Empty function for checking health only.
func (api *ApiHandler) CheckHealth() {
}

func (api *ApiHandler) ListPendingTransfers() []*types.PendingTransfer {
	return api.processor.PendingTransfers()
}

// TrackTransfer starts watching the source tx of a transfer. It returns once the watch has
// started.
func (api *ApiHandler) TrackTransfer(transfer *types.PendingTransfer) error {
	if _, err := api.processor.TrackTransfer(transfer); err != nil {
		log.Warnf("Cannot track transfer, err = %v", err)
		return err
	}

	return nil
}

// ReleaseTransfer releases a transfer and returns the hash of the release tx.
func (api *ApiHandler) ReleaseTransfer(ctx context.Context, transfer *types.BridgeTransaction,
	currentChainId uint64) (common.Hash, error) {
	tx, err := api.processor.ReleaseTransfer(ctx, transfer, currentChainId)
	if err != nil {
		return common.Hash{}, err
	}

	return tx.Hash(), nil
}
