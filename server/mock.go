package server

import (
	"context"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sisu-network/dbridge/types"
)

type MockProcessor struct {
	TrackTransferFunc    func(transfer *types.PendingTransfer) (<-chan *types.TrackUpdate, error)
	ReleaseTransferFunc  func(ctx context.Context, transfer *types.BridgeTransaction, currentChainId uint64) (*ethtypes.Transaction, error)
	PendingTransfersFunc func() []*types.PendingTransfer
}

func (m *MockProcessor) TrackTransfer(transfer *types.PendingTransfer) (<-chan *types.TrackUpdate, error) {
	if m.TrackTransferFunc != nil {
		return m.TrackTransferFunc(transfer)
	}

	return nil, nil
}

func (m *MockProcessor) ReleaseTransfer(ctx context.Context, transfer *types.BridgeTransaction,
	currentChainId uint64) (*ethtypes.Transaction, error) {
	if m.ReleaseTransferFunc != nil {
		return m.ReleaseTransferFunc(ctx, transfer, currentChainId)
	}

	return nil, nil
}

func (m *MockProcessor) PendingTransfers() []*types.PendingTransfer {
	if m.PendingTransfersFunc != nil {
		return m.PendingTransfersFunc()
	}

	return nil
}
