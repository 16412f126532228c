package bridge

import (
	"context"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sisu-network/dbridge/chains/eth"
)

type MockReleaseHandler struct {
	ReleaseTokensFunc func(ctx context.Context, req *eth.ReleaseRequest) (*ethtypes.Transaction, error)
}

func (m *MockReleaseHandler) ReleaseTokens(ctx context.Context, req *eth.ReleaseRequest) (*ethtypes.Transaction, error) {
	if m.ReleaseTokensFunc != nil {
		return m.ReleaseTokensFunc(ctx, req)
	}

	return nil, nil
}
