package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/initall/internal/config"
	"github.com/Sumatoshi-tech/initall/pkg/discovery"
	"github.com/Sumatoshi-tech/initall/pkg/observability"
	"github.com/Sumatoshi-tech/initall/pkg/reconcile"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfigFrom_NoFiles_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfigFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultLineLength, cfg.LineLength)
	assert.Equal(t, config.DefaultWorkers, cfg.Workers)
	assert.False(t, cfg.DoubleQuotes)
	assert.False(t, cfg.Fix)
	assert.Equal(t, discovery.DefaultPatterns(), cfg.Patterns)
	assert.Equal(t, discovery.DefaultExcludes(), cfg.Exclude)
	assert.Equal(t, config.FormatText, cfg.Output.Format)
	assert.True(t, cfg.Output.Diff)
	assert.True(t, cfg.Output.Color)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, observability.FormatText, cfg.Logging.Format)
	assert.True(t, cfg.Cache.Enabled)
	assert.Empty(t, cfg.Cache.Dir)
}

func TestLoadConfigFrom_YAMLFileInDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, ".initall.yaml", `line_length: 88
double_quotes: true
workers: 3
patterns:
  - __init__.py
  - __init__.pyi
output:
  format: json
  diff: false
logging:
  level: debug
  format: json
cache:
  enabled: false
  dir: /tmp/initall-cache
`)

	cfg, err := config.LoadConfigFrom(dir, "")
	require.NoError(t, err)

	assert.Equal(t, 88, cfg.LineLength)
	assert.True(t, cfg.DoubleQuotes)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, []string{"__init__.py", "__init__.pyi"}, cfg.Patterns)
	assert.Equal(t, config.FormatJSON, cfg.Output.Format)
	assert.False(t, cfg.Output.Diff)
	assert.True(t, cfg.Output.Color)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, config.CacheConfig{Dir: "/tmp/initall-cache", Enabled: false}, cfg.Cache)
	assert.Equal(t, []string{path}, cfg.Sources)
}

func TestLoadConfigFrom_PyprojectOverridesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".initall.yaml", "line_length: 88\nworkers: 2\n")
	writeFile(t, dir, "pyproject.toml", `[project]
name = "demo"

[tool.initall]
line-length = 100
double-quotes = true
exclude = ["**/generated/**"]

[tool.initall.output]
format = "yaml"
`)

	cfg, err := config.LoadConfigFrom(dir, "")
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.LineLength)
	assert.Equal(t, 2, cfg.Workers)
	assert.True(t, cfg.DoubleQuotes)
	assert.Equal(t, []string{"**/generated/**"}, cfg.Exclude)
	assert.Equal(t, config.FormatYAML, cfg.Output.Format)
	assert.Len(t, cfg.Sources, 2)
	assert.Equal(t, filepath.Join(dir, "pyproject.toml"), cfg.Sources[1])
}

func TestLoadConfigFrom_PyprojectWithoutSection(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "pyproject.toml", "[tool.black]\nline-length = 79\n")

	cfg, err := config.LoadConfigFrom(dir, "")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultLineLength, cfg.LineLength)
	assert.Empty(t, cfg.Sources)
}

func TestLoadConfigFrom_MalformedPyproject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "pyproject.toml", "[tool.initall\nline-length = \n")

	_, err := config.LoadConfigFrom(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pyproject.toml")
}

func TestLoadConfigFrom_EnvOverridesPyproject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pyproject.toml", "[tool.initall]\nline-length = 100\n")

	t.Setenv("INITALL_LINE_LENGTH", "79")
	t.Setenv("INITALL_OUTPUT_FORMAT", "json")
	t.Setenv("INITALL_FIX", "true")

	cfg, err := config.LoadConfigFrom(dir, "")
	require.NoError(t, err)

	assert.Equal(t, 79, cfg.LineLength)
	assert.Equal(t, config.FormatJSON, cfg.Output.Format)
	assert.True(t, cfg.Fix)
}

func TestLoadConfigFrom_ExplicitPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".initall.yaml", "line_length: 88\n")
	custom := writeFile(t, t.TempDir(), "custom.yaml", "line_length: 60\n")

	cfg, err := config.LoadConfigFrom(dir, custom)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.LineLength)

	_, err = config.LoadConfigFrom(dir, filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestLoadConfigFrom_MalformedYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "patterns: [unclosed\n")

	_, err := config.LoadConfigFrom(dir, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfigFrom_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"line length", "line_length: 0\n", config.ErrInvalidLineLength},
		{"workers", "workers: -1\n", config.ErrInvalidWorkers},
		{"output format", "output:\n  format: xml\n", config.ErrUnknownFormat},
		{"logging format", "logging:\n  format: logfmt\n", config.ErrUnknownLogFormat},
		{"logging level", "logging:\n  level: loud\n", observability.ErrUnknownLogLevel},
		{"patterns", "patterns: []\n", config.ErrNoPatterns},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := writeFile(t, dir, "cfg.yaml", tt.content)

			_, err := config.LoadConfigFrom(dir, path)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConfig_FormatConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Config{LineLength: 99, DoubleQuotes: true}
	assert.Equal(t, reconcile.FormatConfig{LineLength: 99, Quote: reconcile.DoubleQuotes}, cfg.FormatConfig())

	assert.Equal(t, "double", cfg.QuoteName())

	cfg.DoubleQuotes = false
	assert.Equal(t, reconcile.SingleQuotes, cfg.FormatConfig().Quote)
	assert.Equal(t, "single", cfg.QuoteName())

	cfg.Patterns = []string{"__init__.py"}
	cfg.Exclude = []string{"**/x/**"}
	assert.Equal(t, discovery.Options{Patterns: cfg.Patterns, Exclude: cfg.Exclude}, cfg.DiscoveryOptions())
}
