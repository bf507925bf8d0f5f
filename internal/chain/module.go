package chain

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/j0lvera/modebot/internal/config"
)

// Params for creating the stats cache
type Params struct {
	fx.In

	Config *config.Config
	Logger zerolog.Logger
}

// Result of creating the stats cache
type Result struct {
	fx.Out

	Provider Provider
	Stats    *StatsCache
}

// New dials the RPC node and wraps it in a StatsCache.
func New(lc fx.Lifecycle, p Params) (Result, error) {
	provider, err := DialRPC(context.Background(), p.Config.RPCURL)
	if err != nil {
		return Result{}, err
	}

	logger := p.Logger.With().Str("component", "chain").Logger()
	stats := NewStatsCache(
		provider,
		WithTTL(p.Config.StatsTTL),
		WithTimeout(p.Config.StatsTimeout),
		WithLogger(&logger),
	)

	lc.Append(
		fx.Hook{
			OnStop: func(ctx context.Context) error {
				logger.Info().Msg("closing rpc connection")
				provider.Close()
				return nil
			},
		},
	)

	return Result{
		Provider: provider,
		Stats:    stats,
	}, nil
}

// Module provides the blockchain provider and stats cache
func Module() fx.Option {
	return fx.Module(
		"chain",
		fx.Provide(
			New,
		),
	)
}
