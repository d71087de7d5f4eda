package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a JSON logger on stdout. Debug mode lowers the level to debug.
func New(debug bool) zerolog.Logger {
	return NewWithWriter(os.Stdout, debug)
}

// NewWithWriter is New with an explicit sink.
func NewWithWriter(w io.Writer, debug bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	l := zerolog.New(w).With().Timestamp().Logger()
	if debug {
		return l.Level(zerolog.DebugLevel)
	}
	return l.Level(zerolog.InfoLevel)
}
