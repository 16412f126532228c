package types

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// AssetType is the kind of asset carried by a bridge message.
type AssetType int

const (
	AssetTypeNative AssetType = iota
	AssetTypeToken
)

func (t AssetType) String() string {
	switch t {
	case AssetTypeNative:
		return "NATIVE"
	case AssetTypeToken:
		return "TOKEN"
	}

	return fmt.Sprintf("AssetType(%d)", int(t))
}

// Message is the cross-chain payload sent by the source bridge.
type Message struct {
	Id            *big.Int       `json:"id"`
	Sender        common.Address `json:"sender"`
	SrcChainId    *big.Int       `json:"srcChainId"`
	DestChainId   *big.Int       `json:"destChainId"`
	Owner         common.Address `json:"owner"`
	To            common.Address `json:"to"`
	RefundAddress common.Address `json:"refundAddress"`
	DepositValue  *big.Int       `json:"depositValue"`
	CallValue     *big.Int       `json:"callValue"`
	ProcessingFee *big.Int       `json:"processingFee"`
	GasLimit      *big.Int       `json:"gasLimit"`
	Data          hexutil.Bytes  `json:"data"`
	Memo          string         `json:"memo"`
}

// ABIMessage is the form of Message accepted by the abi packer. Field names must match the
// camel-cased tuple component names.
type ABIMessage struct {
	Id            *big.Int
	Sender        common.Address
	SrcChainId    *big.Int
	DestChainId   *big.Int
	Owner         common.Address
	To            common.Address
	RefundAddress common.Address
	DepositValue  *big.Int
	CallValue     *big.Int
	ProcessingFee *big.Int
	GasLimit      *big.Int
	Data          []byte
	Memo          string
}

// MessageComponents describes the Message tuple. The bridge and token vault ABIs use the same
// layout.
var MessageComponents = []abi.ArgumentMarshaling{
	{Name: "id", Type: "uint256"},
	{Name: "sender", Type: "address"},
	{Name: "srcChainId", Type: "uint256"},
	{Name: "destChainId", Type: "uint256"},
	{Name: "owner", Type: "address"},
	{Name: "to", Type: "address"},
	{Name: "refundAddress", Type: "address"},
	{Name: "depositValue", Type: "uint256"},
	{Name: "callValue", Type: "uint256"},
	{Name: "processingFee", Type: "uint256"},
	{Name: "gasLimit", Type: "uint256"},
	{Name: "data", Type: "bytes"},
	{Name: "memo", Type: "string"},
}

var messageArgs abi.Arguments

func init() {
	messageType, err := abi.NewType("tuple", "", MessageComponents)
	if err != nil {
		panic(err)
	}

	messageArgs = abi.Arguments{{Type: messageType}}
}

// AssetType classifies the message. A message without data moves the native asset, anything
// else is a token transfer.
func (m *Message) AssetType() AssetType {
	if m == nil || len(m.Data) == 0 {
		return AssetTypeNative
	}

	return AssetTypeToken
}

// ToABI converts the message into the struct used for abi packing. Nil numbers become zero.
func (m *Message) ToABI() ABIMessage {
	data := []byte(m.Data)
	if data == nil {
		data = []byte{}
	}

	return ABIMessage{
		Id:            orZero(m.Id),
		Sender:        m.Sender,
		SrcChainId:    orZero(m.SrcChainId),
		DestChainId:   orZero(m.DestChainId),
		Owner:         m.Owner,
		To:            m.To,
		RefundAddress: m.RefundAddress,
		DepositValue:  orZero(m.DepositValue),
		CallValue:     orZero(m.CallValue),
		ProcessingFee: orZero(m.ProcessingFee),
		GasLimit:      orZero(m.GasLimit),
		Data:          data,
		Memo:          m.Memo,
	}
}

// Hash returns keccak256(abi.encode(message)), the identifier the destination bridge uses to
// reject replays.
func (m *Message) Hash() (common.Hash, error) {
	if m == nil {
		return common.Hash{}, ErrMissingMessage
	}

	bz, err := messageArgs.Pack(m.ToABI())
	if err != nil {
		return common.Hash{}, fmt.Errorf("cannot encode message: %w", err)
	}

	return crypto.Keccak256Hash(bz), nil
}

func orZero(n *big.Int) *big.Int {
	if n == nil {
		return big.NewInt(0)
	}

	return n
}
