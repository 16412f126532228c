package bridge

import (
	"context"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sisu-network/dbridge/chains/eth"
	"github.com/sisu-network/dbridge/types"
	"github.com/sisu-network/lib/log"
)

// Dispatcher releases confirmed transfers on their destination chain.
//
// It only resolves addresses and delegates to the handler of the transfer's asset type. It
// holds no mutable state and is safe for concurrent use. It does not protect against releasing
// the same transfer twice: the destination bridge rejects a message hash it has already
// processed, and that is the only replay protection.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
	}
}

// CheckChains fails with a ChainMismatchError unless the caller acts on the destination chain
// of a transfer between two different chains.
func CheckChains(fromChainId, toChainId, currentChainId uint64) error {
	if fromChainId == toChainId || currentChainId != toChainId {
		return types.NewChainMismatchError(fromChainId, toChainId, currentChainId)
	}

	return nil
}

// ReleaseTransfer validates the transfer, resolves the chains it refers to and invokes the
// release handler of its asset type. Handler errors are returned unchanged.
func (d *Dispatcher) ReleaseTransfer(ctx context.Context, transfer *types.BridgeTransaction,
	currentChainId uint64, signer *eth.Signer) (*ethtypes.Transaction, error) {
	if err := CheckChains(transfer.FromChainId, transfer.ToChainId, currentChainId); err != nil {
		return nil, err
	}

	msgHash, err := transfer.Message.Hash()
	if err != nil {
		return nil, err
	}
	if msgHash != transfer.MsgHash {
		return nil, types.NewMsgHashMismatchError(msgHash, transfer.MsgHash)
	}

	assetType := transfer.Message.AssetType()

	dest, err := d.registry.ChainMetadata(transfer.ToChainId)
	if err != nil {
		return nil, err
	}

	src, err := d.registry.ChainMetadata(transfer.FromChainId)
	if err != nil {
		return nil, err
	}

	handler, err := d.registry.Handler(assetType)
	if err != nil {
		return nil, err
	}

	log.Verbosef("Releasing %s transfer %s from chain %d to chain %d", assetType, msgHash.Hex(),
		transfer.FromChainId, transfer.ToChainId)

	return handler.ReleaseTokens(ctx, &eth.ReleaseRequest{
		Signer:               signer,
		Message:              transfer.Message,
		MsgHash:              transfer.MsgHash,
		DestBridgeAddress:    dest.BridgeAddress,
		SrcBridgeAddress:     src.BridgeAddress,
		DestClient:           dest.Client,
		SrcTokenVaultAddress: src.TokenVaultAddress,
	})
}
