package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls the global zerolog setup.
type Options struct {
	// Level is the minimum level ("debug", "info", "warn", "error").
	Level string
	// Format is either "console" or "json".
	Format string
	// NoColor disables colored console output.
	NoColor bool
}

// InitDefault sets up a console logger before flags and config are parsed.
func InitDefault() {
	Init(nil)
}

// Init configures the global logger. A nil opts falls back to info-level
// console output.
func Init(opts *Options) {
	if opts == nil {
		opts = &Options{Level: "info", Format: "console"}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if opts.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    opts.NoColor,
	}).With().Timestamp().Logger()
}
