package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// BridgeTransaction is a transfer whose source transaction has been confirmed and that can be
// released on the destination chain.
type BridgeTransaction struct {
	FromChainId uint64      `json:"fromChainId"`
	ToChainId   uint64      `json:"toChainId"`
	Message     *Message    `json:"message"`
	MsgHash     common.Hash `json:"msgHash"`
}

// NewBridgeTransaction builds a transaction with the message hash derived from the message.
func NewBridgeTransaction(fromChainId, toChainId uint64, msg *Message) (*BridgeTransaction, error) {
	hash, err := msg.Hash()
	if err != nil {
		return nil, err
	}

	return &BridgeTransaction{
		FromChainId: fromChainId,
		ToChainId:   toChainId,
		Message:     msg,
		MsgHash:     hash,
	}, nil
}
