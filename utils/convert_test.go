package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeiToEther(t *testing.T) {
	value, _ := new(big.Int).SetString("1234000000000000000", 10)
	require.Equal(t, "1.234", WeiToEther(value))
	require.Equal(t, "2", WeiToEther(big.NewInt(2*OneEtherInWei)))
	require.Equal(t, "0", WeiToEther(nil))
	require.Equal(t, "0", WeiToEther(big.NewInt(0)))
}
