package eth

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"
	"github.com/stretchr/testify/require"
)

func TestStorageProver(t *testing.T) {
	msgHash := common.Hash{9}
	header := &etypes.Header{Number: big.NewInt(42), Difficulty: big.NewInt(1)}

	t.Run("proves_status_slot", func(t *testing.T) {
		client := &MockEthClient{
			HeaderByNumberFunc: func(ctx context.Context, number *big.Int) (*etypes.Header, error) {
				return header, nil
			},
			GetProofFunc: func(ctx context.Context, account common.Address, keys []string, blockNumber *big.Int) (*gethclient.AccountResult, error) {
				require.Equal(t, destBridge, account)
				require.Equal(t, []string{MessageStatusSlot(destBridge, msgHash).Hex()}, keys)
				require.Equal(t, int64(42), blockNumber.Int64())

				return &gethclient.AccountResult{
					StorageProof: []gethclient.StorageResult{{Key: keys[0], Proof: []string{"0xaabb"}}},
				}, nil
			},
		}

		proof, err := NewStorageProver().GenerateReleaseProof(context.Background(), client, destBridge, msgHash)
		require.Nil(t, err)

		height, blockHash, nodes, err := DecodeReleaseProof(proof)
		require.Nil(t, err)
		require.Equal(t, int64(42), height.Int64())
		require.Equal(t, header.Hash(), blockHash)
		require.Equal(t, [][]byte{{0xaa, 0xbb}}, nodes)
	})

	t.Run("empty_proof", func(t *testing.T) {
		client := &MockEthClient{
			HeaderByNumberFunc: func(ctx context.Context, number *big.Int) (*etypes.Header, error) {
				return header, nil
			},
		}

		_, err := NewStorageProver().GenerateReleaseProof(context.Background(), client, destBridge, msgHash)
		require.NotNil(t, err)
	})

	t.Run("invalid_node", func(t *testing.T) {
		client := &MockEthClient{
			HeaderByNumberFunc: func(ctx context.Context, number *big.Int) (*etypes.Header, error) {
				return header, nil
			},
			GetProofFunc: func(ctx context.Context, account common.Address, keys []string, blockNumber *big.Int) (*gethclient.AccountResult, error) {
				return &gethclient.AccountResult{
					StorageProof: []gethclient.StorageResult{{Key: keys[0], Proof: []string{"zz"}}},
				}, nil
			},
		}

		_, err := NewStorageProver().GenerateReleaseProof(context.Background(), client, destBridge, msgHash)
		require.NotNil(t, err)
	})
}
