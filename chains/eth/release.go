package eth

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sisu-network/dbridge/types"
	"github.com/sisu-network/lib/log"
)

// Signer is the account that submits release transactions on the chain it is bound to.
type Signer struct {
	ChainId uint64
	Address common.Address
	Opts    *bind.TransactOpts
	Backend bind.ContractBackend
}

func NewSigner(key *ecdsa.PrivateKey, chainId uint64, backend bind.ContractBackend) (*Signer, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(key, new(big.Int).SetUint64(chainId))
	if err != nil {
		return nil, err
	}

	return &Signer{
		ChainId: chainId,
		Address: crypto.PubkeyToAddress(key.PublicKey),
		Opts:    opts,
		Backend: backend,
	}, nil
}

func (s *Signer) transactOpts(ctx context.Context) *bind.TransactOpts {
	opts := *s.Opts
	opts.Context = ctx
	return &opts
}

// SignerBalance returns the balance of the signer on the chain of client. A signer without funds
// cannot pay for release txs and gets ErrSignerNoFunds.
func SignerBalance(ctx context.Context, client EthClient, signer *Signer) (*big.Int, error) {
	balance, err := client.BalanceAt(ctx, signer.Address, nil)
	if err != nil {
		return nil, err
	}

	if balance == nil || balance.Sign() == 0 {
		return balance, fmt.Errorf("%w: %s on chain %d", types.ErrSignerNoFunds, signer.Address.Hex(),
			signer.ChainId)
	}

	return balance, nil
}

// ReleaseRequest carries everything a release handler needs. All addresses are resolved by the
// caller.
type ReleaseRequest struct {
	Signer               *Signer
	Message              *types.Message
	MsgHash              common.Hash
	DestBridgeAddress    common.Address
	SrcBridgeAddress     common.Address
	DestClient           EthClient
	SrcTokenVaultAddress common.Address
}

// EtherReleaser releases native asset by calling releaseEther on the source bridge.
type EtherReleaser struct {
	prover Prover
}

func NewEtherReleaser(prover Prover) *EtherReleaser {
	return &EtherReleaser{prover: prover}
}

func (r *EtherReleaser) ReleaseTokens(ctx context.Context, req *ReleaseRequest) (*ethtypes.Transaction, error) {
	return release(ctx, req, r.prover, BridgeABI, req.SrcBridgeAddress, "releaseEther")
}

// ERC20Releaser releases tokens by calling releaseERC20 on the source token vault.
type ERC20Releaser struct {
	prover Prover
}

func NewERC20Releaser(prover Prover) *ERC20Releaser {
	return &ERC20Releaser{prover: prover}
}

func (r *ERC20Releaser) ReleaseTokens(ctx context.Context, req *ReleaseRequest) (*ethtypes.Transaction, error) {
	return release(ctx, req, r.prover, TokenVaultABI, req.SrcTokenVaultAddress, "releaseERC20")
}

func release(ctx context.Context, req *ReleaseRequest, prover Prover, contractABI abi.ABI,
	target common.Address, method string) (*ethtypes.Transaction, error) {
	if req.Signer == nil {
		return nil, types.ErrMissingSigner
	}
	if req.Message == nil {
		return nil, types.ErrMissingMessage
	}

	status, err := GetMessageStatus(ctx, req.DestClient, req.DestBridgeAddress, req.MsgHash)
	if err != nil {
		return nil, fmt.Errorf("cannot get message status: %w", err)
	}

	if status != MessageStatusFailed {
		return nil, fmt.Errorf("%w: status = %s", types.ErrMessageNotFailed, status)
	}

	proof, err := prover.GenerateReleaseProof(ctx, req.DestClient, req.DestBridgeAddress, req.MsgHash)
	if err != nil {
		return nil, fmt.Errorf("cannot generate release proof: %w", err)
	}

	backend := req.Signer.Backend
	contract := bind.NewBoundContract(target, contractABI, backend, backend, backend)
	tx, err := contract.Transact(req.Signer.transactOpts(ctx), method, req.Message.ToABI(), proof)
	if err != nil {
		log.Error("Failed to send release tx, err = ", err)
		return nil, err
	}

	log.Infof("Release tx %s sent to %s.%s for message %s", tx.Hash().Hex(), target.Hex(), method, req.MsgHash.Hex())

	return tx, nil
}

// GetMessageStatus reads the status of msgHash from the bridge.
func GetMessageStatus(ctx context.Context, client EthClient, bridge common.Address,
	msgHash common.Hash) (MessageStatus, error) {
	contract := bind.NewBoundContract(bridge, BridgeABI, client, nil, nil)

	var out []interface{}
	err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "getMessageStatus", [32]byte(msgHash))
	if err != nil {
		return 0, err
	}

	if len(out) != 1 {
		return 0, fmt.Errorf("unexpected getMessageStatus output length %d", len(out))
	}

	status, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected getMessageStatus output type %T", out[0])
	}

	return MessageStatus(status), nil
}
