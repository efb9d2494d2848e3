package discovery_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/initall/pkg/discovery"
)

func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()

	for _, rel := range paths {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("import os\n"), 0o600))
	}
}

func TestDiscover_WalksDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root,
		"pkg/__init__.py",
		"pkg/sub/__init__.py",
		"pkg/sub/module.py",
		"pkg/.venv/lib/__init__.py",
		"pkg/__pycache__/__init__.py",
		"other/__init__.py",
	)

	files, warnings := discovery.Discover([]string{root}, discovery.Options{Exclude: discovery.DefaultExcludes()})
	require.Empty(t, warnings)

	assert.Equal(t, []string{
		filepath.Join(root, "other", "__init__.py"),
		filepath.Join(root, "pkg", "__init__.py"),
		filepath.Join(root, "pkg", "sub", "__init__.py"),
	}, files)
}

func TestDiscover_ExplicitFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, "b/__init__.py", "a/__init__.py", "a/mod.py")

	initB := filepath.Join(root, "b", "__init__.py")
	initA := filepath.Join(root, "a", "__init__.py")
	module := filepath.Join(root, "a", "mod.py")
	missing := filepath.Join(root, "nope", "__init__.py")

	files, warnings := discovery.Discover([]string{initB, initA, module, missing, initB}, discovery.Options{})

	assert.Equal(t, []string{initB, initA}, files)
	require.Len(t, warnings, 2)
	assert.ErrorIs(t, warnings[0], discovery.ErrNotInitializer)
	assert.ErrorIs(t, warnings[1], os.ErrNotExist)
}

func TestDiscover_CustomPatternsAndExcludes(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, "pkg/__init__.py", "pkg/__init__.pyi", "pkg/vendored/__init__.py")

	files, warnings := discovery.Discover([]string{root}, discovery.Options{
		Patterns: []string{"__init__.py", "__init__.pyi"},
		Exclude:  []string{"**/vendored/**"},
	})
	require.Empty(t, warnings)

	assert.Equal(t, []string{
		filepath.Join(root, "pkg", "__init__.py"),
		filepath.Join(root, "pkg", "__init__.pyi"),
	}, files)
}

func TestDiscover_InvalidPattern(t *testing.T) {
	t.Parallel()

	files, warnings := discovery.Discover([]string{"."}, discovery.Options{Exclude: []string{"[unclosed"}})

	assert.Empty(t, files)
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], discovery.ErrBadPattern)
}
