package eth

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sisu-network/dbridge/config"
	"github.com/sisu-network/lib/log"
	"github.com/stretchr/testify/require"
)

// Needs a local ganache node.
func TestIntegration_ClientAndConfirmer(t *testing.T) {
	t.Skip()

	cfg := config.DefaultConfig().Chains["ganache1"]
	client := NewEthClient(cfg)
	client.Start()
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	chainId, err := client.ChainID(ctx)
	require.Nil(t, err)
	require.Equal(t, cfg.ChainId, chainId.Uint64())

	head, err := client.BlockNumber(ctx)
	require.Nil(t, err)
	log.Verbose("head = ", head)

	confirmer := NewConfirmer(cfg.Chain, client, time.Second)
	receipt, err := confirmer.WaitForTransaction(ctx, common.HexToHash("0x01"), 0)
	require.Nil(t, err)
	require.Nil(t, receipt)
}
