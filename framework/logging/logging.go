// Package logging builds the zerolog loggers used by the framework and the
// container.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatPretty  = "pretty"
	FormatJSON    = "json"
)

// Config contains logging configuration.
type Config struct {
	Level     string
	Format    string
	Output    string // stdout | stderr
	NoColor   bool
	Timestamp bool

	// Writer overrides Output when set.
	Writer io.Writer
}

// ApplyDefaults fills empty fields.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
}

// Validate checks the level and format names.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("logging: invalid level %q", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case FormatConsole, FormatPretty, FormatJSON:
		return nil
	}
	return fmt.Errorf("logging: format must be one of console, pretty, json (got: %s)", c.Format)
}

// New creates a logger tagged with service. An unknown level falls back to
// info; console and pretty formats get a human-readable writer, anything else
// writes JSON.
//
//	log := logging.New(&logging.Config{Level: "debug"}, "api")
func New(cfg *Config, service string) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := cfg.Writer
	if out == nil {
		out = outputWriter(cfg.Output)
	}

	var zl zerolog.Logger
	switch strings.ToLower(cfg.Format) {
	case FormatConsole, FormatPretty:
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			NoColor:    cfg.NoColor,
		})
	default:
		zl = zerolog.New(out)
	}

	zc := zl.Level(level).With()
	if service != "" {
		zc = zc.Str("service", service)
	}
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	return zc.Logger()
}

// Component returns l tagged with a component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

func outputWriter(output string) io.Writer {
	if strings.ToLower(output) == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}
