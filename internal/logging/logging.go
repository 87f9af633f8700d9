// Package logging configures zerolog for tempura.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide base logger. Component loggers derive from it.
var Logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)

// Options configure Init.
type Options struct {
	Level  string
	Format string // console or json
	Output io.Writer
}

// Init configures the base logger.
func Init(opts Options) error {
	level := zerolog.WarnLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return fmt.Errorf("parse log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	switch opts.Format {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	case "json":
	default:
		return fmt.Errorf("unknown log format %q", opts.Format)
	}

	Logger = zerolog.New(out).With().Timestamp().Logger().Level(level)
	return nil
}

// Component returns a logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}
