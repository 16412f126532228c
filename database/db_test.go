package database

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sisu-network/dbridge/config"
	"github.com/sisu-network/dbridge/types"
	"github.com/stretchr/testify/require"
)

func getInMemoryDb(t *testing.T) Database {
	db := NewDb(&config.Relayer{InMemory: true})
	require.Nil(t, db.Init())
	t.Cleanup(func() { db.Close() })

	return db
}

func newPendingTransfer(t *testing.T, chainId uint64, hash string, seq uint64) *types.PendingTransfer {
	transfer, err := types.NewBridgeTransaction(1, 10, &types.Message{
		Id:           big.NewInt(int64(seq)),
		Sender:       common.HexToAddress("0x1"),
		SrcChainId:   big.NewInt(1),
		DestChainId:  big.NewInt(10),
		Owner:        common.HexToAddress("0x2"),
		To:           common.HexToAddress("0x3"),
		DepositValue: big.NewInt(1000),
		GasLimit:     big.NewInt(21000),
		Data:         []byte{0xab, 0xcd},
		Memo:         "memo",
	})
	require.Nil(t, err)

	return &types.PendingTransfer{
		ChainId:  chainId,
		Hash:     common.HexToHash(hash),
		Seq:      seq,
		Transfer: transfer,
	}
}

func TestInMemory_PendingTransfers(t *testing.T) {
	db := getInMemoryDb(t)

	transfers, err := db.LoadPendingTransfers()
	require.Nil(t, err)
	require.Empty(t, transfers)

	a := newPendingTransfer(t, 1, "0xaa", 2)
	b := newPendingTransfer(t, 1, "0xbb", 1)
	c := &types.PendingTransfer{ChainId: 10, Hash: common.HexToHash("0xaa"), Seq: 3}
	require.Nil(t, db.SavePendingTransfer(a))
	require.Nil(t, db.SavePendingTransfer(b))
	require.Nil(t, db.SavePendingTransfer(c))

	transfers, err = db.LoadPendingTransfers()
	require.Nil(t, err)
	require.Len(t, transfers, 3)

	// Ordered by seq.
	require.Equal(t, b.Hash, transfers[0].Hash)
	require.Equal(t, a.Hash, transfers[1].Hash)
	require.Equal(t, uint64(1), transfers[1].ChainId)
	require.Equal(t, uint64(10), transfers[2].ChainId)
	require.Nil(t, transfers[2].Transfer)

	loaded := transfers[1].Transfer
	require.NotNil(t, loaded)
	require.Equal(t, a.Transfer.MsgHash, loaded.MsgHash)
	require.Equal(t, uint64(10), loaded.ToChainId)
	require.Equal(t, "memo", loaded.Message.Memo)
	require.Equal(t, types.AssetTypeToken, loaded.Message.AssetType())

	hash, err := loaded.Message.Hash()
	require.Nil(t, err)
	require.Equal(t, a.Transfer.MsgHash, hash)

	require.Nil(t, db.DeletePendingTransfer(1, a.Hash))
	transfers, err = db.LoadPendingTransfers()
	require.Nil(t, err)
	require.Len(t, transfers, 2)
	require.Equal(t, b.Hash, transfers[0].Hash)
	require.Equal(t, c.ChainId, transfers[1].ChainId)
}

func TestInMemory_SaveReplacesExisting(t *testing.T) {
	db := getInMemoryDb(t)

	transfer := newPendingTransfer(t, 1, "0xaa", 1)
	require.Nil(t, db.SavePendingTransfer(transfer))

	transfer.Seq = 5
	require.Nil(t, db.SavePendingTransfer(transfer))

	transfers, err := db.LoadPendingTransfers()
	require.Nil(t, err)
	require.Len(t, transfers, 1)
	require.Equal(t, uint64(5), transfers[0].Seq)
}

func TestInMemory_DeleteMissing(t *testing.T) {
	db := getInMemoryDb(t)
	require.Nil(t, db.DeletePendingTransfer(1, common.HexToHash("0x01")))
}
