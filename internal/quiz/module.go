package quiz

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/j0lvera/modebot/internal/config"
)

// Params for creating the quiz machine
type Params struct {
	fx.In

	Config *config.Config
	Logger zerolog.Logger
}

// Result of creating the quiz machine
type Result struct {
	fx.Out

	Machine *Machine
	Bank    *Bank
}

// New builds the session machine and question bank, and starts the idle
// sweeper when an idle timeout is configured.
func New(lc fx.Lifecycle, p Params) (Result, error) {
	static, err := FromConfig(p.Config.Questions)
	if err != nil {
		return Result{}, err
	}

	logger := p.Logger.With().Str("component", "quiz").Logger()
	machine := NewMachine(
		WithIdleTimeout(p.Config.QuizIdleTimeout),
		WithLogger(&logger),
	)

	if p.Config.QuizIdleTimeout > 0 {
		sweeper := NewSweeper(machine, p.Config.QuizSweepInterval)
		lc.Append(
			fx.Hook{
				OnStart: func(ctx context.Context) error {
					logger.Info().
						Dur("idle_timeout", p.Config.QuizIdleTimeout).
						Dur("interval", p.Config.QuizSweepInterval).
						Msg("starting quiz session sweeper")
					go sweeper.Run(context.Background())
					return nil
				},
				OnStop: func(ctx context.Context) error {
					sweeper.Stop()
					return nil
				},
			},
		)
	}

	return Result{
		Machine: machine,
		Bank:    NewBank(static),
	}, nil
}

// Module provides the quiz machine and bank
func Module() fx.Option {
	return fx.Module(
		"quiz",
		fx.Provide(
			New,
		),
	)
}

// Sweeper periodically evicts idle sessions.
type Sweeper struct {
	machine  *Machine
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewSweeper(machine *Machine, interval time.Duration) *Sweeper {
	return &Sweeper{
		machine:  machine,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run sweeps every interval until ctx is done or Stop is called.
func (s *Sweeper) Run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.machine.Sweep(s.machine.now())
		}
	}
}

// Stop ends Run and waits for it to return.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}
