package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/initall/internal/config"
)

func TestFindProjectRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "pyproject.toml", "[project]\nname = \"demo\"\n")

	pkg := filepath.Join(root, "src", "demo")
	require.NoError(t, os.MkdirAll(pkg, 0o755))
	initFile := writeFile(t, pkg, "__init__.py", "")

	assert.Equal(t, root, config.FindProjectRoot([]string{pkg}))
	assert.Equal(t, root, config.FindProjectRoot([]string{initFile, "elsewhere"}))
	assert.Equal(t, ".", config.FindProjectRoot(nil))
}

func TestFindProjectRoot_ConfigFileMarker(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, ".initall.yaml", "line_length: 80\n")

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, root, config.FindProjectRoot([]string{nested}))
}
