package database

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/sisu-network/dbridge/types"
)

type MockDb struct {
	InitFunc                  func() error
	SavePendingTransferFunc   func(transfer *types.PendingTransfer) error
	DeletePendingTransferFunc func(chainId uint64, hash common.Hash) error
	LoadPendingTransfersFunc  func() ([]*types.PendingTransfer, error)
}

func (mock *MockDb) Init() error {
	if mock.InitFunc != nil {
		return mock.InitFunc()
	}

	return nil
}

func (mock *MockDb) Close() error {
	return nil
}

func (mock *MockDb) SavePendingTransfer(transfer *types.PendingTransfer) error {
	if mock.SavePendingTransferFunc != nil {
		return mock.SavePendingTransferFunc(transfer)
	}

	return nil
}

func (mock *MockDb) DeletePendingTransfer(chainId uint64, hash common.Hash) error {
	if mock.DeletePendingTransferFunc != nil {
		return mock.DeletePendingTransferFunc(chainId, hash)
	}

	return nil
}

func (mock *MockDb) LoadPendingTransfers() ([]*types.PendingTransfer, error) {
	if mock.LoadPendingTransfersFunc != nil {
		return mock.LoadPendingTransfersFunc()
	}

	return nil, nil
}
