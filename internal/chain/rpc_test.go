package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params []any           `json:"params"`
}

// newRPCServer answers JSON-RPC calls from a method->result table.
func newRPCServer(t *testing.T, results map[string]any) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		result, ok := results[req.Method]
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if ok {
			resp["result"] = result
		} else {
			resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestRPCProvider(t *testing.T) {
	srv := newRPCServer(t, map[string]any{
		"eth_blockNumber": "0x12d687",
		"eth_gasPrice":    "0x3b9aca00",
		"eth_getBlockByNumber": map[string]any{
			"number":       "0x12d687",
			"timestamp":    "0x6632a1c0",
			"size":         "0x400",
			"transactions": []string{"0xaa", "0xbb", "0xcc"},
		},
	})

	provider, err := DialRPC(context.Background(), srv.URL)
	require.NoError(t, err)
	defer provider.Close()

	ctx := context.Background()

	height, err := provider.LatestBlockNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234567), height)

	price, err := provider.GasPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000_000), price.Int64())

	block, err := provider.Block(ctx, height)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234567), block.Number)
	assert.Equal(t, 3, block.TxCount)
	assert.Equal(t, uint64(0x6632a1c0), block.Timestamp)
	require.NotNil(t, block.Size)
	assert.Equal(t, uint64(1024), *block.Size)
}

func TestRPCProvider_BlockWithoutSize(t *testing.T) {
	srv := newRPCServer(t, map[string]any{
		"eth_getBlockByNumber": map[string]any{
			"number":       "0x1",
			"timestamp":    "0x1",
			"transactions": []string{},
		},
	})

	provider, err := DialRPC(context.Background(), srv.URL)
	require.NoError(t, err)
	defer provider.Close()

	block, err := provider.Block(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, block.Size)
	assert.Equal(t, 0, block.TxCount)
}

func TestRPCProvider_BlockNotFound(t *testing.T) {
	srv := newRPCServer(t, map[string]any{
		"eth_getBlockByNumber": nil,
	})

	provider, err := DialRPC(context.Background(), srv.URL)
	require.NoError(t, err)
	defer provider.Close()

	_, err = provider.Block(context.Background(), 99)
	assert.ErrorIs(t, err, ethereum.NotFound)
}

func TestRPCProvider_Error(t *testing.T) {
	srv := newRPCServer(t, map[string]any{})

	provider, err := DialRPC(context.Background(), srv.URL)
	require.NoError(t, err)
	defer provider.Close()

	_, err = provider.LatestBlockNumber(context.Background())
	assert.Error(t, err)

	_, err = provider.GasPrice(context.Background())
	assert.Error(t, err)
}
