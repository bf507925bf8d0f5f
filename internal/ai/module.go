package ai

import (
	"github.com/j0lvera/modebot/internal/config"
	"go.uber.org/fx"
)

// Params for creating an AI service
type Params struct {
	fx.In

	Config *config.Config
}

// Result of creating an AI service
type Result struct {
	fx.Out

	Completer Completer
	History   *History
}

// New creates a new AI service based on configuration
func New(p Params) (Result, error) {
	service, err := NewOpenAIService(
		p.Config.APIKey,
		p.Config.BaseURL,
		p.Config.Model,
		p.Config.Prompts.System,
		WithRateLimit(p.Config.AIRateLimit, p.Config.AIBurst),
	)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Completer: service,
		History:   NewHistory(p.Config.HistoryLimit),
	}, nil
}

// Module provides the AI service
func Module() fx.Option {
	return fx.Module(
		"ai",
		fx.Provide(
			New,
		),
	)
}
