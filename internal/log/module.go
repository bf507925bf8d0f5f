package log

import (
	"io"
	"os"
	"time"

	"github.com/ipfans/fxlogger"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// NewLogger creates a configured zerolog.Logger instance
func NewLogger() zerolog.Logger {
	return newLogger(os.Stdout, os.Getenv("DEBUG") == "true")
}

func newLogger(out io.Writer, debug bool) zerolog.Logger {
	logWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    out != os.Stdout,
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(logWriter).
		Level(level).
		With().
		Timestamp().
		Caller().
		Str("service", "modebot").
		Logger()
}

// Module provides the logger and routes fx's own lifecycle events through it.
func Module() fx.Option {
	logger := NewLogger()
	return fx.Options(
		fx.Supply(logger),
		fx.WithLogger(fxlogger.WithZerolog(logger.With().Str("component", "fx").Logger())),
	)
}
