package types

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrMissingMessage    = errors.New("bridge transaction has no message")
	ErrMissingSigner     = errors.New("no signer for release")
	ErrDuplicateTransfer = errors.New("transfer is already being watched")
	ErrTransferConfirmed = errors.New("transfer is already confirmed")
	ErrTrackerStopped    = errors.New("tracker is stopped")
	ErrMessageNotFailed  = errors.New("message is not in failed status on the destination bridge")
	ErrSignerNoFunds     = errors.New("signer has no funds")
)

// ChainMismatchError is returned when a release is attempted from a chain other than the
// destination chain or when a transfer targets its own source chain.
type ChainMismatchError struct {
	FromChainId    uint64
	ToChainId      uint64
	CurrentChainId uint64
}

func NewChainMismatchError(from, to, current uint64) error {
	return &ChainMismatchError{FromChainId: from, ToChainId: to, CurrentChainId: current}
}

func (e *ChainMismatchError) Error() string {
	if e.FromChainId == e.ToChainId {
		return fmt.Sprintf("source and destination chain are the same: %d", e.FromChainId)
	}

	return fmt.Sprintf("current chain %d is not the destination chain %d", e.CurrentChainId, e.ToChainId)
}

type UnknownChainError struct {
	ChainId uint64
}

func NewUnknownChainError(chainId uint64) error {
	return &UnknownChainError{ChainId: chainId}
}

func (e *UnknownChainError) Error() string {
	return fmt.Sprintf("unknown chain %d", e.ChainId)
}

type UnknownAssetTypeError struct {
	AssetType AssetType
}

func NewUnknownAssetTypeError(t AssetType) error {
	return &UnknownAssetTypeError{AssetType: t}
}

func (e *UnknownAssetTypeError) Error() string {
	return fmt.Sprintf("no release handler for asset type %s", e.AssetType)
}

type MsgHashMismatchError struct {
	Expected common.Hash
	Actual   common.Hash
}

func NewMsgHashMismatchError(expected, actual common.Hash) error {
	return &MsgHashMismatchError{Expected: expected, Actual: actual}
}

func (e *MsgHashMismatchError) Error() string {
	return fmt.Sprintf("message hash mismatch, expected = %s, actual = %s", e.Expected.Hex(), e.Actual.Hex())
}

// ConfirmationWatchError wraps a chain client failure while waiting for a confirmation.
type ConfirmationWatchError struct {
	ChainId uint64
	Hash    common.Hash
	Err     error
}

func NewConfirmationWatchError(chainId uint64, hash common.Hash, err error) error {
	return &ConfirmationWatchError{ChainId: chainId, Hash: hash, Err: err}
}

func (e *ConfirmationWatchError) Error() string {
	return fmt.Sprintf("failed to watch tx %s on chain %d: %v", e.Hash.Hex(), e.ChainId, e.Err)
}

func (e *ConfirmationWatchError) Unwrap() error {
	return e.Err
}
