// Package config loads initall settings from config files, pyproject.toml
// and the environment.
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/initall/pkg/discovery"
	"github.com/Sumatoshi-tech/initall/pkg/observability"
	"github.com/Sumatoshi-tech/initall/pkg/reconcile"
)

// Sentinel validation errors.
var (
	ErrInvalidLineLength = errors.New("line_length must be positive")
	ErrInvalidWorkers    = errors.New("workers must not be negative")
	ErrUnknownFormat     = errors.New("unknown output format")
	ErrUnknownLogFormat  = errors.New("unknown logging format")
	ErrNoPatterns        = errors.New("patterns must not be empty")
)

// Report output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Default configuration values.
const (
	DefaultLineLength    = reconcile.DefaultLineLength
	DefaultWorkers       = 0
	DefaultOutputFormat  = FormatText
	DefaultLogLevel      = "warn"
	DefaultLoggingFormat = observability.FormatText
)

// Config is the top-level configuration. Field tags use mapstructure for
// viper unmarshalling.
type Config struct {
	Patterns     []string      `mapstructure:"patterns"`
	Exclude      []string      `mapstructure:"exclude"`
	Output       OutputConfig  `mapstructure:"output"`
	Logging      LoggingConfig `mapstructure:"logging"`
	Cache        CacheConfig   `mapstructure:"cache"`
	LineLength   int           `mapstructure:"line_length"`
	Workers      int           `mapstructure:"workers"`
	DoubleQuotes bool          `mapstructure:"double_quotes"`
	Fix          bool          `mapstructure:"fix"`

	// Sources lists the files that contributed settings, in merge order.
	Sources []string `mapstructure:"-"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Diff   bool   `mapstructure:"diff"`
	Color  bool   `mapstructure:"color"`
}

// LoggingConfig controls diagnostic logging on stderr.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CacheConfig controls the in-sync file cache. An empty Dir means the
// per-user cache directory.
type CacheConfig struct {
	Dir     string `mapstructure:"dir"`
	Enabled bool   `mapstructure:"enabled"`
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.LineLength < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidLineLength, c.LineLength)
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}

	if !slices.Contains([]string{FormatText, FormatJSON, FormatYAML}, c.Output.Format) {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, c.Output.Format)
	}

	if !slices.Contains([]string{observability.FormatText, observability.FormatJSON}, c.Logging.Format) {
		return fmt.Errorf("%w: %q", ErrUnknownLogFormat, c.Logging.Format)
	}

	_, err := observability.ParseLevel(c.Logging.Level)
	if err != nil {
		return err
	}

	if len(c.Patterns) == 0 {
		return ErrNoPatterns
	}

	return nil
}

// FormatConfig returns the formatter settings.
func (c *Config) FormatConfig() reconcile.FormatConfig {
	quote := reconcile.SingleQuotes
	if c.DoubleQuotes {
		quote = reconcile.DoubleQuotes
	}

	return reconcile.FormatConfig{LineLength: c.LineLength, Quote: quote}
}

// QuoteName is the quote style as a stable word, used to key caches.
func (c *Config) QuoteName() string {
	if c.DoubleQuotes {
		return "double"
	}

	return "single"
}

// DiscoveryOptions returns the file discovery settings.
func (c *Config) DiscoveryOptions() discovery.Options {
	return discovery.Options{Patterns: c.Patterns, Exclude: c.Exclude}
}
