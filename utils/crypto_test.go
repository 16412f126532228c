package utils

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestPrivateKeyFromHex(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.Nil(t, err)
	encoded := hexutil.Encode(crypto.FromECDSA(key))

	for _, s := range []string{encoded, encoded[2:], " " + encoded + "\n"} {
		parsed, err := PrivateKeyFromHex(s)
		require.Nil(t, err)
		require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), crypto.PubkeyToAddress(parsed.PublicKey))
	}

	_, err = PrivateKeyFromHex("")
	require.NotNil(t, err)
	_, err = PrivateKeyFromHex("0x1234")
	require.NotNil(t, err)
}
