package main

import (
	"go.uber.org/fx"

	"github.com/j0lvera/modebot/internal/ai"
	"github.com/j0lvera/modebot/internal/bot"
	"github.com/j0lvera/modebot/internal/chain"
	"github.com/j0lvera/modebot/internal/config"
	"github.com/j0lvera/modebot/internal/db"
	"github.com/j0lvera/modebot/internal/log"
	"github.com/j0lvera/modebot/internal/quiz"
	"github.com/j0lvera/modebot/internal/wallet"
)

// walletbot is modebot plus the custodial wallet commands.
func main() {
	fx.New(
		log.Module(),
		config.Module(),
		db.Module(),
		chain.Module(),
		ai.Module(),
		quiz.Module(),
		wallet.Module(),
		bot.Module(),
	).Run()
}
