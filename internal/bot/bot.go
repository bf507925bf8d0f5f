package bot

import (
	"context"

	tbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/j0lvera/modebot/internal/ai"
	"github.com/j0lvera/modebot/internal/chain"
	"github.com/j0lvera/modebot/internal/config"
	"github.com/j0lvera/modebot/internal/db"
	"github.com/j0lvera/modebot/internal/quiz"
	"github.com/j0lvera/modebot/internal/wallet"
)

type Params struct {
	fx.In

	Config      *config.Config
	Logger      zerolog.Logger
	Stats       *chain.StatsCache
	Quiz        *quiz.Machine
	Bank        *quiz.Bank
	AI          ai.Completer
	History     *ai.History
	Users       *db.UserStore
	QuizResults *db.QuizResultStore
	Wallets     *wallet.Service `optional:"true"`
}

type Result struct {
	fx.Out

	Bot     *tbot.Bot
	Handler *Handler
}

func New(lc fx.Lifecycle, p Params) (Result, error) {
	logger := p.Logger.With().Str("component", "bot").Logger()

	deps := Deps{
		Stats:       p.Stats,
		Quiz:        p.Quiz,
		Bank:        p.Bank,
		AI:          p.AI,
		History:     p.History,
		Users:       p.Users,
		QuizResults: p.QuizResults,
		Logger:      &logger,
	}
	// a nil *wallet.Service must stay a nil interface
	if p.Wallets != nil {
		deps.Wallets = p.Wallets
	}
	handler := NewHandler(deps)

	opts := []tbot.Option{
		tbot.WithDefaultHandler(
			func(ctx context.Context, tg *tbot.Bot, update *models.Update) {
				handler.Handle(ctx, tg, update)
			},
		),
	}

	tg, err := tbot.New(p.Config.Token, opts...)
	if err != nil {
		return Result{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(
		fx.Hook{
			OnStart: func(context.Context) error {
				logger.Info().Bool("wallet", deps.Wallets != nil).Msg("starting telegram bot...")
				go tg.Start(ctx)
				return nil
			},
			OnStop: func(context.Context) error {
				logger.Info().Msg("stopping telegram bot...")
				cancel()
				return nil
			},
		},
	)

	return Result{
		Bot:     tg,
		Handler: handler,
	}, nil
}

func Module() fx.Option {
	return fx.Module(
		"bot",
		fx.Provide(
			New,
		),
		fx.Invoke(
			func(bot *tbot.Bot) {},
		),
	)
}
