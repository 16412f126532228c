package utils

import (
	"math/big"
)

var (
	OneEtherInWei = int64(1_000_000_000_000_000_000)
)

// WeiToEther formats a wei amount in ether. A nil amount is 0.
func WeiToEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	bigval := new(big.Float).SetInt(wei)
	bigval = bigval.Quo(bigval, new(big.Float).SetInt64(OneEtherInWei))

	return bigval.Text('f', -1)
}
