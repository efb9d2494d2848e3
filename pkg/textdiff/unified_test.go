package textdiff_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/initall/pkg/textdiff"
)

func TestUnified_Equal(t *testing.T) {
	t.Parallel()

	assert.Empty(t, textdiff.Unified("a.py", []byte("x\n"), []byte("x\n"), textdiff.DefaultContext))
}

func TestUnified_Insertion(t *testing.T) {
	t.Parallel()

	before := "import os\nimport sys as _s\ndef run(): pass\n"
	after := "import os\nimport sys as _s\n\n__all__ = ['os', 'run']\n\ndef run(): pass\n"

	got := textdiff.Unified("pkg/__init__.py", []byte(before), []byte(after), textdiff.DefaultContext)

	want := strings.Join([]string{
		"--- a/pkg/__init__.py",
		"+++ b/pkg/__init__.py",
		"@@ -1,3 +1,6 @@",
		" import os",
		" import sys as _s",
		"+",
		"+__all__ = ['os', 'run']",
		"+",
		" def run(): pass",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestUnified_Replacement(t *testing.T) {
	t.Parallel()

	before := "import a\nimport b\n__all__ = ['b', 'a']\n"
	after := "import a\nimport b\n__all__ = ['a', 'b']\n"

	got := textdiff.Unified("x.py", []byte(before), []byte(after), 1)

	want := strings.Join([]string{
		"--- a/x.py",
		"+++ b/x.py",
		"@@ -2,2 +2,2 @@",
		" import b",
		"-__all__ = ['b', 'a']",
		"+__all__ = ['a', 'b']",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestUnified_SeparateHunks(t *testing.T) {
	t.Parallel()

	lines := make([]string, 20)
	for i := range lines {
		lines[i] = string(rune('a' + i))
	}

	before := strings.Join(lines, "\n") + "\n"

	changed := append([]string(nil), lines...)
	changed[1] = "B"
	changed[18] = "S"
	after := strings.Join(changed, "\n") + "\n"

	got := textdiff.Unified("x.py", []byte(before), []byte(after), textdiff.DefaultContext)

	assert.Equal(t, 2, strings.Count(got, "@@ -"))
	assert.Contains(t, got, "@@ -1,5 +1,5 @@\n")
	assert.Contains(t, got, "@@ -16,5 +16,5 @@\n")
}

func TestUnified_NoTrailingNewline(t *testing.T) {
	t.Parallel()

	got := textdiff.Unified("x.py", []byte("import os"), []byte("import os\n\n__all__ = ['os']\n"), textdiff.DefaultContext)

	assert.Contains(t, got, "-import os\n\\ No newline at end of file\n")
	assert.Contains(t, got, "+__all__ = ['os']\n")
}
