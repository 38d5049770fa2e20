// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logger fields
const (
	PACKAGE = "pkg"
	EVENT   = "event"
	ID      = "id"
	SESSION = "session"
	EMAIL   = "email"
	KEY     = "key"
	STATE   = "state"
	BACKEND = "backend"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// Configure sets the global level and output. Pretty selects the
// human-readable console writer used during development.
func Configure(level string, pretty bool) {
	ConfigureWriter(os.Stderr, level, pretty)
}

// ConfigureWriter is Configure with an explicit destination.
func ConfigureWriter(w io.Writer, level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	out := w
	if pretty {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// PackageLogger returns a logger with pkg={name}.
func PackageLogger(name string) zerolog.Logger {
	return log.With().Str(PACKAGE, name).Logger()
}
