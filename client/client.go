package client

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sisu-network/dbridge/types"
	"github.com/sisu-network/lib/log"
)

// Client talks to a running relayer.
type Client interface {
	CheckHealth(ctx context.Context) error
	ListPendingTransfers(ctx context.Context) ([]*types.PendingTransfer, error)
	TrackTransfer(ctx context.Context, transfer *types.PendingTransfer) error
	ReleaseTransfer(ctx context.Context, transfer *types.BridgeTransaction, currentChainId uint64) (common.Hash, error)
	Close()
}

type DefaultClient struct {
	client *rpc.Client
	url    string
}

func Dial(ctx context.Context, url string) (Client, error) {
	log.Verbose("Dialing relayer at ", url)

	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}

	return &DefaultClient{
		client: client,
		url:    url,
	}, nil
}

func (c *DefaultClient) CheckHealth(ctx context.Context) error {
	var result interface{}
	return c.client.CallContext(ctx, &result, "dbridge_checkHealth")
}

func (c *DefaultClient) ListPendingTransfers(ctx context.Context) ([]*types.PendingTransfer, error) {
	var transfers []*types.PendingTransfer
	if err := c.client.CallContext(ctx, &transfers, "dbridge_listPendingTransfers"); err != nil {
		return nil, err
	}

	return transfers, nil
}

func (c *DefaultClient) TrackTransfer(ctx context.Context, transfer *types.PendingTransfer) error {
	var result interface{}
	err := c.client.CallContext(ctx, &result, "dbridge_trackTransfer", transfer)
	if err != nil {
		log.Error("Cannot track transfer ", transfer.Hash.Hex(), ", err = ", err)
	}

	return err
}

func (c *DefaultClient) ReleaseTransfer(ctx context.Context, transfer *types.BridgeTransaction,
	currentChainId uint64) (common.Hash, error) {
	var hash common.Hash
	err := c.client.CallContext(ctx, &hash, "dbridge_releaseTransfer", transfer, currentChainId)
	return hash, err
}

func (c *DefaultClient) Close() {
	c.client.Close()
}
