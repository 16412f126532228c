package eth

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// Prover builds the proof that a message failed on the destination bridge.
type Prover interface {
	GenerateReleaseProof(ctx context.Context, destClient EthClient, destBridge common.Address,
		msgHash common.Hash) ([]byte, error)
}

var releaseProofArgs abi.Arguments

func init() {
	uint256Ty, _ := abi.NewType("uint256", "", nil)
	bytes32Ty, _ := abi.NewType("bytes32", "", nil)
	bytesTy, _ := abi.NewType("bytes", "", nil)

	releaseProofArgs = abi.Arguments{
		{Name: "height", Type: uint256Ty},
		{Name: "blockHash", Type: bytes32Ty},
		{Name: "storageProof", Type: bytesTy},
	}
}

// StorageProver proves the status slot of a message with eth_getProof at the latest
// destination block.
type StorageProver struct{}

func NewStorageProver() *StorageProver {
	return &StorageProver{}
}

// MessageStatusSlot is the storage key holding the status of msgHash in the bridge.
func MessageStatusSlot(bridge common.Address, msgHash common.Hash) common.Hash {
	return crypto.Keccak256Hash(bridge.Bytes(), msgHash.Bytes())
}

func (p *StorageProver) GenerateReleaseProof(ctx context.Context, destClient EthClient,
	destBridge common.Address, msgHash common.Hash) ([]byte, error) {
	header, err := destClient.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot get latest header: %w", err)
	}
	if header == nil || header.Number == nil {
		return nil, fmt.Errorf("latest header has no number")
	}

	slot := MessageStatusSlot(destBridge, msgHash)
	result, err := destClient.GetProof(ctx, destBridge, []string{slot.Hex()}, header.Number)
	if err != nil {
		return nil, fmt.Errorf("cannot get storage proof: %w", err)
	}

	if result == nil || len(result.StorageProof) == 0 {
		return nil, fmt.Errorf("empty storage proof for message %s", msgHash.Hex())
	}

	nodes := make([][]byte, 0, len(result.StorageProof[0].Proof))
	for _, node := range result.StorageProof[0].Proof {
		bz, err := hexutil.Decode(node)
		if err != nil {
			return nil, fmt.Errorf("invalid proof node %q: %w", node, err)
		}
		nodes = append(nodes, bz)
	}

	encodedNodes, err := rlp.EncodeToBytes(nodes)
	if err != nil {
		return nil, err
	}

	return releaseProofArgs.Pack(new(big.Int).Set(header.Number), [32]byte(header.Hash()), encodedNodes)
}

// DecodeReleaseProof is the inverse of the encoding done by StorageProver.
func DecodeReleaseProof(proof []byte) (height *big.Int, blockHash common.Hash, nodes [][]byte, err error) {
	values, err := releaseProofArgs.Unpack(proof)
	if err != nil {
		return nil, common.Hash{}, nil, err
	}

	height = values[0].(*big.Int)
	blockHash = common.Hash(values[1].([32]byte))
	encodedNodes := values[2].([]byte)

	if err := rlp.DecodeBytes(encodedNodes, &nodes); err != nil {
		return nil, common.Hash{}, nil, err
	}

	return height, blockHash, nodes, nil
}
