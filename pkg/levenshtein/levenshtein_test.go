package levenshtein_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/initall/pkg/levenshtein"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"load_config", "load_confg", 1},
		{"héllo", "hello", 1},
		{"same", "same", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein.Distance(tt.a, tt.b), "%q -> %q", tt.a, tt.b)
		assert.Equal(t, tt.want, levenshtein.Distance(tt.b, tt.a), "%q -> %q", tt.b, tt.a)
	}
}

func TestClosest(t *testing.T) {
	t.Parallel()

	candidates := []string{"Client", "load_config", "parse", "parser"}

	got, ok := levenshtein.Closest("load_confg", candidates, 2)
	assert.True(t, ok)
	assert.Equal(t, "load_config", got)

	got, ok = levenshtein.Closest("parsed", candidates, 2)
	assert.True(t, ok)
	assert.Equal(t, "parse", got, "ties go to the earliest candidate")

	_, ok = levenshtein.Closest("unrelated", candidates, 2)
	assert.False(t, ok)

	_, ok = levenshtein.Closest("parse", []string{"parse"}, 2)
	assert.False(t, ok, "a name never suggests itself")
}
