package types

import "github.com/ethereum/go-ethereum/common"

type TrackResult int

const (
	TrackResultConfirmed TrackResult = iota
	TrackResultFailure
)

// PendingTransfer is a submitted source chain transaction that is waiting for its first
// confirmation.
type PendingTransfer struct {
	ChainId uint64      `json:"chainId"`
	Hash    common.Hash `json:"hash"`
	// Position in submission order, assigned by the tracker.
	Seq uint64 `json:"seq"`
	// Set when the confirmation watch of this transfer returned an error. The transfer stays
	// pending until it is added again.
	WatchFailed bool `json:"watchFailed"`

	// Optional. When set, it is released once the source tx is confirmed.
	Transfer *BridgeTransaction `json:"transfer,omitempty"`
}

// TrackUpdate is the outcome of a confirmation watch.
type TrackUpdate struct {
	ChainId     uint64
	Hash        common.Hash
	BlockHeight int64
	Result      TrackResult

	// Set when Result is TrackResultFailure.
	Err error
}
