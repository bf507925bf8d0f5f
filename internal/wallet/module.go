package wallet

import (
	"errors"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/j0lvera/modebot/internal/config"
)

// Params for creating the wallet service
type Params struct {
	fx.In

	Config *config.Config
	Store  Store
	Logger zerolog.Logger
}

// Result of creating the wallet service
type Result struct {
	fx.Out

	Service *Service
}

// New creates the wallet service; WALLET_API_KEY must be set.
func New(p Params) (Result, error) {
	if p.Config.WalletAPIKey == "" {
		return Result{}, errors.New("WALLET_API_KEY is required for the wallet bot")
	}

	logger := p.Logger.With().Str("component", "wallet").Logger()
	client := NewClient(p.Config.WalletBaseURL, p.Config.WalletAPIKey)

	return Result{
		Service: NewService(client, p.Store, p.Config.WalletBlockchain, p.Config.WalletAccountType, &logger),
	}, nil
}

// Module provides the wallet service
func Module() fx.Option {
	return fx.Module(
		"wallet",
		fx.Provide(
			New,
		),
	)
}
