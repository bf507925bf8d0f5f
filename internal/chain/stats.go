package chain

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/j0lvera/modebot/internal/errs"
)

const (
	// DefaultTTL is how long a snapshot is served before it is refreshed.
	DefaultTTL = 5 * time.Minute
	// DefaultTimeout bounds one refresh.
	DefaultTimeout = 10 * time.Second

	providerName = "blockchain"
	refreshKey   = "snapshot"
)

// StatsCache serves a NetworkSnapshot and refreshes it at most once per TTL.
type StatsCache struct {
	provider Provider
	ttl      time.Duration
	timeout  time.Duration
	logger   *zerolog.Logger

	group singleflight.Group

	mu         sync.RWMutex
	snapshot   *NetworkSnapshot
	capturedAt time.Time
}

// StatsOption configures a StatsCache.
type StatsOption func(*StatsCache)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) StatsOption {
	return func(c *StatsCache) {
		c.ttl = ttl
	}
}

// WithTimeout overrides DefaultTimeout. Values <= 0 are ignored.
func WithTimeout(timeout time.Duration) StatsOption {
	return func(c *StatsCache) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the logger used for refresh events.
func WithLogger(logger *zerolog.Logger) StatsOption {
	return func(c *StatsCache) {
		c.logger = logger
	}
}

// NewStatsCache creates an empty cache over provider.
func NewStatsCache(provider Provider, opts ...StatsOption) *StatsCache {
	nop := zerolog.Nop()
	c := &StatsCache{
		provider: provider,
		ttl:      DefaultTTL,
		timeout:  DefaultTimeout,
		logger:   &nop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the cached snapshot, refreshing it first when it is missing
// or older than the TTL at now. On failure the previous snapshot stays cached
// and is available through Stale.
//
// The refresh is shared by every caller waiting on it, so it runs detached
// from ctx and is bounded by the cache timeout instead. A caller whose ctx
// ends stops waiting without failing the others.
func (c *StatsCache) Snapshot(ctx context.Context, now time.Time) (*NetworkSnapshot, error) {
	if snap, ok := c.fresh(now); ok {
		return snap, nil
	}

	ch := c.group.DoChan(refreshKey, func() (any, error) {
		// another caller may have refreshed while we waited for the flight
		if snap, ok := c.fresh(now); ok {
			return snap, nil
		}
		return c.refresh(context.WithoutCancel(ctx), now)
	})

	select {
	case <-ctx.Done():
		return nil, errs.Unavailable(providerName, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug().Msg("snapshot refresh shared between callers")
		}
		return res.Val.(*NetworkSnapshot), nil
	}
}

// Stale returns the last successfully fetched snapshot regardless of age.
func (c *StatsCache) Stale() (*NetworkSnapshot, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil {
		return nil, time.Time{}, false
	}
	return c.snapshot, c.capturedAt, true
}

// TTL returns the configured time-to-live.
func (c *StatsCache) TTL() time.Duration {
	return c.ttl
}

func (c *StatsCache) fresh(now time.Time) (*NetworkSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil || now.Sub(c.capturedAt) > c.ttl {
		return nil, false
	}
	return c.snapshot, true
}

func (c *StatsCache) refresh(ctx context.Context, now time.Time) (*NetworkSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug().Time("now", now).Msg("refreshing network snapshot")

	height, err := c.provider.LatestBlockNumber(ctx)
	if err != nil {
		return nil, c.fail(err)
	}

	gasPrice, err := c.provider.GasPrice(ctx)
	if err != nil {
		return nil, c.fail(err)
	}

	block, err := c.provider.Block(ctx, height)
	if err != nil {
		return nil, c.fail(err)
	}

	snap := newSnapshot(height, gasPrice, block)

	c.mu.Lock()
	c.snapshot = snap
	c.capturedAt = now
	c.mu.Unlock()

	c.logger.Info().
		Uint64("block_height", snap.BlockHeight()).
		Str("gas_price_gwei", snap.GasPriceGwei().String()).
		Int("tx_count", snap.TxCount()).
		Msg("network snapshot refreshed")

	return snap, nil
}

func (c *StatsCache) fail(err error) error {
	c.logger.Error().Err(err).Msg("unable to refresh network snapshot")
	return errs.Unavailable(providerName, err)
}
