package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
)

// RPCProvider implements Provider on top of an Ethereum JSON-RPC endpoint.
type RPCProvider struct {
	client *ethclient.Client
}

// rpcBlock decodes eth_getBlockByNumber without transaction bodies. Mode is an
// OP-stack chain, so full decoding through types.Block would trip on deposit
// transactions.
type rpcBlock struct {
	Number       hexutil.Uint64    `json:"number"`
	Timestamp    hexutil.Uint64    `json:"timestamp"`
	Size         *hexutil.Uint64   `json:"size"`
	Transactions []json.RawMessage `json:"transactions"`
}

// DialRPC connects to the node at url.
func DialRPC(ctx context.Context, url string) (*RPCProvider, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rpc: %w", err)
	}

	return NewRPCProvider(client), nil
}

func NewRPCProvider(client *ethclient.Client) *RPCProvider {
	return &RPCProvider{client: client}
}

func (p *RPCProvider) LatestBlockNumber(ctx context.Context) (uint64, error) {
	n, err := p.client.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get block number: %w", err)
	}
	return n, nil
}

func (p *RPCProvider) GasPrice(ctx context.Context) (*big.Int, error) {
	price, err := p.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	return price, nil
}

func (p *RPCProvider) Block(ctx context.Context, number uint64) (Block, error) {
	var raw *rpcBlock
	err := p.client.Client().CallContext(
		ctx, &raw, "eth_getBlockByNumber", hexutil.EncodeUint64(number), false,
	)
	if err != nil {
		return Block{}, fmt.Errorf("failed to get block %d: %w", number, err)
	}
	if raw == nil {
		return Block{}, fmt.Errorf("block %d: %w", number, ethereum.NotFound)
	}

	block := Block{
		Number:    uint64(raw.Number),
		TxCount:   len(raw.Transactions),
		Timestamp: uint64(raw.Timestamp),
	}
	if raw.Size != nil {
		size := uint64(*raw.Size)
		block.Size = &size
	}

	return block, nil
}

// Close releases the underlying RPC connection.
func (p *RPCProvider) Close() {
	p.client.Close()
}
