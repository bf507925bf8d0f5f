package chain

import (
	"context"
	"math/big"
)

// Block is the subset of a block the stats cache needs.
type Block struct {
	Number    uint64
	TxCount   int
	Timestamp uint64
	Size      *uint64 // nil when the node omits it
}

// Provider reads network state from a blockchain node.
type Provider interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
	GasPrice(ctx context.Context) (*big.Int, error) // wei
	Block(ctx context.Context, number uint64) (Block, error)
}
