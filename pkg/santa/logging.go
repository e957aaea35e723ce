package santa

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LogConfig configures the ambient structured logger: console or JSON
// output at a configurable level. No tracing/metrics/events pipeline is
// built here — only the logger itself.
type LogConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string
	// Format is "console" (human-readable) or "json".
	Format string
	// Output is "stdout", "stderr", or a file path.
	Output string
}

// DefaultLogConfig reads SANTA_LOG_LEVEL and SANTA_LOG_FORMAT from the
// environment, falling back to info/console.
func DefaultLogConfig() LogConfig {
	cfg := LogConfig{Level: "info", Format: "console", Output: "stderr"}
	if level := os.Getenv("SANTA_LOG_LEVEL"); level != "" {
		cfg.Level = level
	}
	if format := os.Getenv("SANTA_LOG_FORMAT"); format != "" {
		cfg.Format = format
	}
	return cfg
}

// NewLogger builds a zerolog.Logger per cfg.
func NewLogger(cfg LogConfig) (zerolog.Logger, error) {
	var writer io.Writer
	switch cfg.Output {
	case "", "stderr":
		writer = os.Stderr
	case "stdout":
		writer = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, NewIOError("failed to open log output", err)
		}
		writer = file
	}

	if cfg.Format == "console" {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339, NoColor: false}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(writer).With().Timestamp().Logger().Level(parseLevel(cfg.Level))
	return logger, nil
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
