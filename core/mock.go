package core

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

type MockConfirmer struct {
	WaitForTransactionFunc func(ctx context.Context, txHash common.Hash, confirmations uint64) (*ethtypes.Receipt, error)
}

func (m *MockConfirmer) WaitForTransaction(ctx context.Context, txHash common.Hash,
	confirmations uint64) (*ethtypes.Receipt, error) {
	if m.WaitForTransactionFunc != nil {
		return m.WaitForTransactionFunc(ctx, txHash, confirmations)
	}

	return nil, nil
}
