// Package observability provides structured logging with OpenTelemetry trace
// correlation for initall.
package observability

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// AppMode identifies how the binary is processing files.
type AppMode string

const (
	// ModeCheck reports drift without touching files.
	ModeCheck AppMode = "check"
	// ModeFix rewrites drifted files.
	ModeFix AppMode = "fix"
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

const defaultServiceName = "initall"

// ErrUnknownLogLevel is returned by ParseLevel for unrecognised names.
var ErrUnknownLogLevel = errors.New("unknown log level")

// Config holds logging configuration.
type Config struct {
	// Writer receives log output; nil means os.Stderr.
	Writer io.Writer

	// ServiceName is attached to every record.
	ServiceName string

	// Environment is attached when non-empty.
	Environment string

	// Mode identifies the processing mode.
	Mode AppMode

	// Format is FormatText or FormatJSON.
	Format string

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level
}

// DefaultConfig returns a Config for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName: defaultServiceName,
		Mode:        ModeCheck,
		Format:      FormatText,
		LogLevel:    slog.LevelWarn,
	}
}

// NewLogger builds the context-aware logger. Text output goes through a
// charmbracelet/log handler, JSON output through slog's JSON handler; both
// are wrapped in a TracingHandler.
func NewLogger(cfg Config) *slog.Logger {
	writer := cfg.Writer
	if writer == nil {
		writer = os.Stderr
	}

	service := cfg.ServiceName
	if service == "" {
		service = defaultServiceName
	}

	var inner slog.Handler

	if cfg.Format == FormatJSON {
		inner = slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: cfg.LogLevel})
	} else {
		inner = log.NewWithOptions(writer, log.Options{
			Level:  log.Level(cfg.LogLevel),
			Prefix: service,
		})
	}

	return slog.New(NewTracingHandler(inner, service, cfg.Environment, cfg.Mode))
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(strings.TrimSpace(name)))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLogLevel, name)
	}

	return level, nil
}
