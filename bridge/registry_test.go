package bridge

import (
	"errors"
	"testing"

	"github.com/sisu-network/dbridge/chains/eth"
	"github.com/sisu-network/dbridge/config"
	"github.com/sisu-network/dbridge/types"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("duplicated_chain", func(t *testing.T) {
		_, err := NewRegistry([]*ChainMetadata{{ChainId: 1}, {ChainId: 1}}, nil)
		require.NotNil(t, err)
	})

	t.Run("lookup", func(t *testing.T) {
		registry, err := NewRegistry([]*ChainMetadata{{ChainId: 10}, {ChainId: 1}}, nil)
		require.Nil(t, err)

		chain, err := registry.ChainMetadata(10)
		require.Nil(t, err)
		require.Equal(t, uint64(10), chain.ChainId)

		_, err = registry.ChainMetadata(2)
		var unknown *types.UnknownChainError
		require.True(t, errors.As(err, &unknown))

		_, err = registry.Handler(types.AssetTypeNative)
		var unknownAsset *types.UnknownAssetTypeError
		require.True(t, errors.As(err, &unknownAsset))

		require.Equal(t, []uint64{1, 10}, registry.ChainIds())
	})

	t.Run("from_config", func(t *testing.T) {
		cfg := config.DefaultConfig()
		clients := make(map[uint64]eth.EthClient)
		for _, chain := range cfg.Chains {
			clients[chain.ChainId] = &eth.MockEthClient{}
		}

		registry, err := NewRegistryFromConfig(cfg, clients, DefaultHandlers(eth.NewStorageProver()))
		require.Nil(t, err)

		chain, err := registry.ChainMetadata(cfg.Chains["ganache1"].ChainId)
		require.Nil(t, err)
		require.Equal(t, "ganache1", chain.Name)
		require.Equal(t, cfg.Chains["ganache1"].BridgeAddress, chain.BridgeAddress.Hex())

		_, err = registry.Handler(types.AssetTypeToken)
		require.Nil(t, err)
	})

	t.Run("from_config_missing_client", func(t *testing.T) {
		_, err := NewRegistryFromConfig(config.DefaultConfig(), map[uint64]eth.EthClient{}, nil)
		require.NotNil(t, err)
	})
}
