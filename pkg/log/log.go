// Package log builds the per-component zerolog loggers.
package log

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var (
	isTerminal           = isatty.IsTerminal(os.Stderr.Fd())
	Output     io.Writer = os.Stderr
)

func init() {
	zerolog.TimeFieldFormat = "2006-01-02 15:04:05"
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// SetDebug switches every logger between debug and info level.
func SetDebug(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// SetQuiet drops everything below error level.
func SetQuiet() {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
}

func New(name string) zerolog.Logger {
	if isTerminal && Output == os.Stderr {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: zerolog.TimeFieldFormat}).
			With().
			Timestamp().
			Str("component", name).
			Logger()
	}
	return zerolog.New(Output).
		With().
		Str("component", name).
		Timestamp().
		Logger()
}
