package persist_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/initall/pkg/persist"
)

type state struct {
	Entries map[string]string `json:"entries"`
	Version string            `json:"version"`
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, codec := range []persist.Codec{persist.JSONCodec{Indent: "  "}, persist.JSONCodec{}} {
		dir := filepath.Join(t.TempDir(), "nested")
		store := persist.NewStore[state](dir, "cache", codec)

		_, found, err := store.Load()
		require.NoError(t, err)
		assert.False(t, found)

		want := state{Entries: map[string]string{"a/__init__.py": "abc"}, Version: "v1"}
		require.NoError(t, store.Save(want))

		got, found, err := store.Load()
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, want, got)
		assert.Equal(t, filepath.Join(dir, "cache"+codec.Extension()), store.Path())

		leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
		require.NoError(t, err)
		assert.Empty(t, leftovers)
	}
}

func TestStore_CorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := persist.NewStore[state](dir, "cache", persist.JSONCodec{})
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o600))

	_, found, err := store.Load()
	require.Error(t, err)
	assert.False(t, found)
}
