// Package commands implements CLI command handlers for initall.
package commands

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/initall/internal/config"
	"github.com/Sumatoshi-tech/initall/internal/report"
	"github.com/Sumatoshi-tech/initall/pkg/discovery"
	"github.com/Sumatoshi-tech/initall/pkg/exports"
	"github.com/Sumatoshi-tech/initall/pkg/filecache"
	"github.com/Sumatoshi-tech/initall/pkg/observability"
	"github.com/Sumatoshi-tech/initall/pkg/pysyntax"
	"github.com/Sumatoshi-tech/initall/pkg/runner"
	"github.com/Sumatoshi-tech/initall/pkg/version"
)

// CheckCommand holds flag values and collaborators for the root command.
type CheckCommand struct {
	configPath   string
	format       string
	exclude      []string
	lineLength   int
	workers      int
	doubleQuotes bool
	fix          bool
	noDiff       bool
	noColor      bool
	noCache      bool
	verbose      bool
	quiet        bool

	fs runner.FileSystem
}

// NewRootCommand creates the initall command. It checks, or with --fix
// rewrites, the __all__ lists of the package initializers under its
// arguments.
func NewRootCommand() *cobra.Command {
	return newRootCommandWithFS(runner.OSFileSystem{})
}

func newRootCommandWithFS(fsys runner.FileSystem) *cobra.Command {
	cc := &CheckCommand{fs: fsys}

	cmd := &cobra.Command{
		Use:   "initall [paths...]",
		Short: "Keep __all__ in package __init__ files in sync with their imports",
		Long: `initall checks that every package initializer declares an __all__ list
matching the public names it imports or defines, sorted and de-duplicated.

With --fix the list is rewritten in place. Exit status is 0 when everything
is in sync, 1 when files would be (or were) changed or are malformed, and 2
on parse, I/O or configuration errors.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          cc.run,
	}

	cmd.PersistentFlags().BoolVarP(&cc.verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVarP(&cc.quiet, "quiet", "q", false, "suppress output")

	cmd.Flags().IntVarP(&cc.lineLength, "line-length", "l", config.DefaultLineLength, "Maximum line length of a rendered __all__")
	cmd.Flags().BoolVar(&cc.doubleQuotes, "double-quotes", false, "Render names with double quotes")
	cmd.Flags().BoolVarP(&cc.fix, "fix", "f", false, "Rewrite files instead of reporting")
	cmd.Flags().StringSliceVar(&cc.exclude, "exclude", nil, "Additional doublestar globs to skip")
	cmd.Flags().IntVarP(&cc.workers, "workers", "j", 0, "Number of files processed concurrently (0 = use CPU count)")
	cmd.Flags().StringVar(&cc.format, "format", config.DefaultOutputFormat, "Output format: text, json, yaml")
	cmd.Flags().BoolVar(&cc.noDiff, "no-diff", false, "Do not print diffs in check mode")
	cmd.Flags().BoolVar(&cc.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&cc.noCache, "no-cache", false, "Do not read or write the in-sync file cache")
	cmd.Flags().StringVar(&cc.configPath, "config", "", "Config file (default: .initall.yaml in the project or $HOME)")

	return cmd
}

func (cc *CheckCommand) run(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	cfg, err := config.LoadConfigFrom(config.FindProjectRoot(paths), cc.configPath)
	if err != nil {
		return usageError(err)
	}

	err = cc.applyFlags(cmd, cfg)
	if err != nil {
		return usageError(err)
	}

	mode := runner.Check
	if cfg.Fix {
		mode = runner.Fix
	}

	logger, err := cc.logger(cmd, cfg, mode)
	if err != nil {
		return usageError(err)
	}

	for _, source := range cfg.Sources {
		logger.Debug("loaded config", "path", source)
	}

	files, warnings := discovery.Discover(paths, cfg.DiscoveryOptions())
	for _, warning := range warnings {
		logger.Warn("skipping path", "error", warning)
	}

	if len(files) == 0 && len(warnings) > 0 {
		return usageError(fmt.Errorf("no files to check: %w", warnings[0]))
	}

	parser, err := pysyntax.NewParser()
	if err != nil {
		return usageError(err)
	}

	r := &runner.Runner{
		FS:        cc.fs,
		Extractor: exports.NewExtractor(parser),
		Logger:    logger,
		Format:    cfg.FormatConfig(),
		Mode:      mode,
		Workers:   cfg.Workers,
	}

	cache := openCache(cfg, logger)
	if cache != nil {
		r.Cache = cache
	}

	rep := r.Run(cmd.Context(), files)

	if cache != nil {
		saveErr := cache.Save()
		if saveErr != nil {
			logger.Warn("cache not saved", "error", saveErr)
		}
	}

	err = report.Write(cmd.OutOrStdout(), rep, report.Options{
		Format:  cfg.Output.Format,
		Mode:    mode,
		Diff:    cfg.Output.Diff,
		Color:   cfg.Output.Color,
		Verbose: cc.verbose,
		Quiet:   cc.quiet,
	})
	if err != nil {
		return usageError(err)
	}

	if code := rep.ExitCode(); code != runner.ExitOK {
		return &ExitError{Code: code}
	}

	return nil
}

// applyFlags overrides configuration with explicitly set flags.
func (cc *CheckCommand) applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("line-length") {
		cfg.LineLength = cc.lineLength
	}

	if flags.Changed("double-quotes") {
		cfg.DoubleQuotes = cc.doubleQuotes
	}

	if flags.Changed("fix") {
		cfg.Fix = cc.fix
	}

	if flags.Changed("workers") {
		cfg.Workers = cc.workers
	}

	if flags.Changed("format") {
		cfg.Output.Format = cc.format
	}

	if cc.noDiff {
		cfg.Output.Diff = false
	}

	if cc.noColor {
		cfg.Output.Color = false
	}

	if cc.noCache {
		cfg.Cache.Enabled = false
	}

	cfg.Exclude = append(cfg.Exclude, cc.exclude...)

	switch {
	case cc.verbose:
		cfg.Logging.Level = slog.LevelDebug.String()
	case cc.quiet:
		cfg.Logging.Level = slog.LevelError.String()
	}

	err := cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	return nil
}

func (cc *CheckCommand) logger(cmd *cobra.Command, cfg *config.Config, mode runner.Mode) (*slog.Logger, error) {
	level, err := observability.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	logCfg := observability.DefaultConfig()
	logCfg.Writer = cmd.ErrOrStderr()
	logCfg.Format = cfg.Logging.Format
	logCfg.LogLevel = level
	logCfg.Mode = observability.AppMode(mode.String())

	return observability.NewLogger(logCfg), nil
}

// openCache returns nil when caching is disabled or the cache directory is
// unusable; a run never fails because of the cache.
func openCache(cfg *config.Config, logger *slog.Logger) *filecache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}

	dir := cfg.Cache.Dir
	if dir == "" {
		var err error

		dir, err = filecache.DefaultDir()
		if err != nil {
			logger.Warn("cache disabled", "error", err)

			return nil
		}
	}

	fingerprint := filecache.Fingerprint(version.Version, strconv.Itoa(cfg.LineLength), cfg.QuoteName())

	cache, err := filecache.Open(dir, fingerprint)
	if err != nil {
		logger.Warn("ignoring unreadable cache", "error", err)
	}

	logger.Debug("opened cache", "dir", dir, "entries", cache.Len())

	return cache
}
