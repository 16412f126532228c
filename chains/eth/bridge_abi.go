package eth

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const messageTupleJSON = `{"components":[
	{"name":"id","type":"uint256"},
	{"name":"sender","type":"address"},
	{"name":"srcChainId","type":"uint256"},
	{"name":"destChainId","type":"uint256"},
	{"name":"owner","type":"address"},
	{"name":"to","type":"address"},
	{"name":"refundAddress","type":"address"},
	{"name":"depositValue","type":"uint256"},
	{"name":"callValue","type":"uint256"},
	{"name":"processingFee","type":"uint256"},
	{"name":"gasLimit","type":"uint256"},
	{"name":"data","type":"bytes"},
	{"name":"memo","type":"string"}
],"name":"message","type":"tuple"}`

const BridgeABIJSON = `[
{"inputs":[{"name":"msgHash","type":"bytes32"}],"name":"getMessageStatus","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
{"inputs":[` + messageTupleJSON + `,{"name":"proof","type":"bytes"}],"name":"releaseEther","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

const TokenVaultABIJSON = `[
{"inputs":[` + messageTupleJSON + `,{"name":"proof","type":"bytes"}],"name":"releaseERC20","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

var (
	BridgeABI     = mustParseABI(BridgeABIJSON)
	TokenVaultABI = mustParseABI(TokenVaultABIJSON)
)

// MessageStatus is the status of a message on the destination bridge.
type MessageStatus uint8

const (
	MessageStatusNew MessageStatus = iota
	MessageStatusRetriable
	MessageStatusDone
	MessageStatusFailed
)

func (s MessageStatus) String() string {
	switch s {
	case MessageStatusNew:
		return "NEW"
	case MessageStatusRetriable:
		return "RETRIABLE"
	case MessageStatusDone:
		return "DONE"
	case MessageStatusFailed:
		return "FAILED"
	}

	return "UNKNOWN"
}

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}

	return parsed
}
