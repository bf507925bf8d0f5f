package chain

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// SizeUnavailable is the size descriptor used when the node does not report a block size.
const SizeUnavailable = "unavailable"

// gweiExp shifts a wei amount into gwei.
const gweiExp = -9

// NetworkSnapshot is one reading of network metrics. It is never mutated after
// the stats cache builds it.
type NetworkSnapshot struct {
	height    uint64
	gasPrice  decimal.Decimal
	txCount   int
	timestamp uint64
	size      string
}

func newSnapshot(height uint64, gasPriceWei *big.Int, block Block) *NetworkSnapshot {
	size := SizeUnavailable
	if block.Size != nil {
		size = fmt.Sprintf("%d bytes", *block.Size)
	}

	return &NetworkSnapshot{
		height:    height,
		gasPrice:  decimal.NewFromBigInt(gasPriceWei, gweiExp),
		txCount:   block.TxCount,
		timestamp: block.Timestamp,
		size:      size,
	}
}

// BlockHeight returns the latest block number.
func (s *NetworkSnapshot) BlockHeight() uint64 { return s.height }

// GasPriceGwei returns the suggested gas price in gwei.
func (s *NetworkSnapshot) GasPriceGwei() decimal.Decimal { return s.gasPrice }

// TxCount returns the number of transactions in the latest block.
func (s *NetworkSnapshot) TxCount() int { return s.txCount }

// BlockTimestamp returns the latest block's timestamp in unix seconds.
func (s *NetworkSnapshot) BlockTimestamp() uint64 { return s.timestamp }

// BlockTime returns BlockTimestamp as a UTC time.
func (s *NetworkSnapshot) BlockTime() time.Time {
	return time.Unix(int64(s.timestamp), 0).UTC()
}

// BlockSize returns the block size descriptor or SizeUnavailable.
func (s *NetworkSnapshot) BlockSize() string { return s.size }
