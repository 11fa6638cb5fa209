package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects level, destination and format of the process logger.
// Logs go to stderr by default so they never interleave with REPL replies.
type Options struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
}

func level(option string) (slog.Leveler, bool) {
	switch strings.ToLower(option) {
	case "":
		return nil, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return nil, false
	}
}

// New builds a slog logger. Unusable options fall back to defaults and the
// returned logger reports what it could not apply.
func New(options Options) *slog.Logger {
	return newLogger(options, os.Stderr)
}

func newLogger(options Options, stderr io.Writer) *slog.Logger {
	lvl, ok := level(options.Level)
	if !ok {
		bad := options.Level
		options.Level = ""
		logger := newLogger(options, stderr)
		logger.Warn("could not parse logger level", "level", bad)
		return logger
	}
	opts := slog.HandlerOptions{Level: lvl}

	var output io.Writer
	switch options.File {
	case "", "-":
		output = stderr
	case os.DevNull:
		return slog.New(slog.DiscardHandler)
	default:
		f, err := os.OpenFile(options.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			options.File = ""
			logger := newLogger(options, stderr)
			logger.Warn("could not open logger file", "error", err)
			return logger
		}
		output = f
	}

	switch strings.ToLower(options.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(output, &opts))
	case "", "text":
		return slog.New(slog.NewTextHandler(output, &opts))
	default:
		bad := options.Format
		options.Format = "text"
		logger := newLogger(options, stderr)
		logger.Warn("could not parse logger format", "format", bad)
		return logger
	}
}
