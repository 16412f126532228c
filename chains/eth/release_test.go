package eth

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"
	"github.com/sisu-network/dbridge/types"
	"github.com/stretchr/testify/require"
)

var (
	destBridge = common.HexToAddress("0x00000000000000000000000000000000000000d1")
	srcBridge  = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	srcVault   = common.HexToAddress("0x00000000000000000000000000000000000000a1")
)

func mockDestClient(t *testing.T, status MessageStatus) *MockEthClient {
	return &MockEthClient{
		CallContractFunc: func(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
			require.Equal(t, destBridge, *call.To)
			return BridgeABI.Methods["getMessageStatus"].Outputs.Pack(uint8(status))
		},
		HeaderByNumberFunc: func(ctx context.Context, number *big.Int) (*etypes.Header, error) {
			return &etypes.Header{Number: big.NewInt(100), Difficulty: big.NewInt(1)}, nil
		},
		GetProofFunc: func(ctx context.Context, account common.Address, keys []string, blockNumber *big.Int) (*gethclient.AccountResult, error) {
			return &gethclient.AccountResult{
				Address: account,
				StorageProof: []gethclient.StorageResult{
					{Key: keys[0], Value: big.NewInt(int64(status)), Proof: []string{"0x01", "0x0203"}},
				},
			}, nil
		},
	}
}

func newTestSigner(t *testing.T, chainId uint64, backend *MockEthClient) *Signer {
	key, err := crypto.GenerateKey()
	require.Nil(t, err)

	signer, err := NewSigner(key, chainId, backend)
	require.Nil(t, err)

	return signer
}

func newTestRequest(t *testing.T, data []byte, destClient EthClient, signer *Signer) *ReleaseRequest {
	msg := &types.Message{
		Id:          big.NewInt(1),
		SrcChainId:  big.NewInt(1),
		DestChainId: big.NewInt(10),
		Owner:       common.Address{1},
		To:          common.Address{1},
		Data:        data,
	}
	msgHash, err := msg.Hash()
	require.Nil(t, err)

	return &ReleaseRequest{
		Signer:               signer,
		Message:              msg,
		MsgHash:              msgHash,
		DestBridgeAddress:    destBridge,
		SrcBridgeAddress:     srcBridge,
		DestClient:           destClient,
		SrcTokenVaultAddress: srcVault,
	}
}

func TestEtherReleaser(t *testing.T) {
	t.Run("release_failed_message", func(t *testing.T) {
		var sent *etypes.Transaction
		backend := &MockEthClient{
			SendTransactionFunc: func(ctx context.Context, tx *etypes.Transaction) error {
				sent = tx
				return nil
			},
		}

		req := newTestRequest(t, nil, mockDestClient(t, MessageStatusFailed), newTestSigner(t, 10, backend))
		tx, err := NewEtherReleaser(NewStorageProver()).ReleaseTokens(context.Background(), req)
		require.Nil(t, err)
		require.Equal(t, sent, tx)
		require.Equal(t, srcBridge, *tx.To())

		method, err := BridgeABI.MethodById(tx.Data()[:4])
		require.Nil(t, err)
		require.Equal(t, "releaseEther", method.Name)

		args, err := method.Inputs.Unpack(tx.Data()[4:])
		require.Nil(t, err)
		require.Equal(t, 2, len(args))

		height, _, nodes, err := DecodeReleaseProof(args[1].([]byte))
		require.Nil(t, err)
		require.Equal(t, int64(100), height.Int64())
		require.Equal(t, [][]byte{{0x01}, {0x02, 0x03}}, nodes)
	})

	t.Run("message_not_failed", func(t *testing.T) {
		sendCount := 0
		backend := &MockEthClient{
			SendTransactionFunc: func(ctx context.Context, tx *etypes.Transaction) error {
				sendCount++
				return nil
			},
		}

		req := newTestRequest(t, nil, mockDestClient(t, MessageStatusDone), newTestSigner(t, 10, backend))
		_, err := NewEtherReleaser(NewStorageProver()).ReleaseTokens(context.Background(), req)
		require.True(t, errors.Is(err, types.ErrMessageNotFailed))
		require.Equal(t, 0, sendCount)
	})

	t.Run("missing_signer", func(t *testing.T) {
		req := newTestRequest(t, nil, mockDestClient(t, MessageStatusFailed), nil)
		_, err := NewEtherReleaser(NewStorageProver()).ReleaseTokens(context.Background(), req)
		require.True(t, errors.Is(err, types.ErrMissingSigner))
	})

	t.Run("send_error_is_returned", func(t *testing.T) {
		sendErr := fmt.Errorf("insufficient funds")
		backend := &MockEthClient{
			SendTransactionFunc: func(ctx context.Context, tx *etypes.Transaction) error {
				return sendErr
			},
		}

		req := newTestRequest(t, nil, mockDestClient(t, MessageStatusFailed), newTestSigner(t, 10, backend))
		_, err := NewEtherReleaser(NewStorageProver()).ReleaseTokens(context.Background(), req)
		require.True(t, errors.Is(err, sendErr))
	})
}

func TestERC20Releaser(t *testing.T) {
	var sent *etypes.Transaction
	backend := &MockEthClient{
		SendTransactionFunc: func(ctx context.Context, tx *etypes.Transaction) error {
			sent = tx
			return nil
		},
	}

	req := newTestRequest(t, []byte{0xa9, 0x05, 0x9c, 0xbb}, mockDestClient(t, MessageStatusFailed),
		newTestSigner(t, 10, backend))
	tx, err := NewERC20Releaser(NewStorageProver()).ReleaseTokens(context.Background(), req)
	require.Nil(t, err)
	require.Equal(t, sent, tx)
	require.Equal(t, srcVault, *tx.To())

	method, err := TokenVaultABI.MethodById(tx.Data()[:4])
	require.Nil(t, err)
	require.Equal(t, "releaseERC20", method.Name)
}

func TestGetMessageStatus(t *testing.T) {
	status, err := GetMessageStatus(context.Background(), mockDestClient(t, MessageStatusRetriable),
		destBridge, common.Hash{1})
	require.Nil(t, err)
	require.Equal(t, MessageStatusRetriable, status)
}

func TestSignerBalance(t *testing.T) {
	signer := newTestSigner(t, 1, &MockEthClient{})

	t.Run("funded", func(t *testing.T) {
		client := &MockEthClient{
			BalanceAtFunc: func(ctx context.Context, account common.Address, block *big.Int) (*big.Int, error) {
				require.Equal(t, signer.Address, account)
				require.Nil(t, block)
				return big.NewInt(5), nil
			},
		}

		balance, err := SignerBalance(context.Background(), client, signer)
		require.Nil(t, err)
		require.Equal(t, big.NewInt(5), balance)
	})

	t.Run("no_funds", func(t *testing.T) {
		balance, err := SignerBalance(context.Background(), &MockEthClient{}, signer)
		require.True(t, errors.Is(err, types.ErrSignerNoFunds))
		require.Equal(t, 0, balance.Sign())
	})

	t.Run("rpc_error", func(t *testing.T) {
		rpcErr := fmt.Errorf("rpc is down")
		client := &MockEthClient{
			BalanceAtFunc: func(ctx context.Context, account common.Address, block *big.Int) (*big.Int, error) {
				return nil, rpcErr
			},
		}

		_, err := SignerBalance(context.Background(), client, signer)
		require.Equal(t, rpcErr, err)
	})
}
