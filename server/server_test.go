package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sisu-network/dbridge/types"
	"github.com/stretchr/testify/require"
)

func TestServer_HttpRoutes(t *testing.T) {
	t.Parallel()

	processor := &MockProcessor{
		PendingTransfersFunc: func() []*types.PendingTransfer {
			return []*types.PendingTransfer{
				{ChainId: 1, Hash: common.HexToHash("0x01"), Seq: 1},
				{ChainId: 10, Hash: common.HexToHash("0x02"), Seq: 2, WatchFailed: true},
			}
		},
	}

	s, err := NewServer(NewApi(processor), 0)
	require.Nil(t, err)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.Nil(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/pending")
	require.Nil(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var pending []*types.PendingTransfer
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&pending))
	require.Len(t, pending, 2)
	require.Equal(t, common.HexToHash("0x02"), pending[1].Hash)
	require.True(t, pending[1].WatchFailed)
}
