package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBinary_EmptyData(t *testing.T) {
	t.Parallel()

	assert.False(t, IsBinary(nil))
	assert.False(t, IsBinary([]byte{}))
}

func TestIsBinary_PureText(t *testing.T) {
	t.Parallel()

	assert.False(t, IsBinary([]byte("import os\n")))
}

func TestIsBinary_NullByte(t *testing.T) {
	t.Parallel()

	assert.True(t, IsBinary([]byte("import\x00os")))
}

func TestIsBinary_NullBeyondSniffBoundary(t *testing.T) {
	t.Parallel()

	// Null byte beyond the sniff window should NOT be detected.
	data := make([]byte, BinarySniffLength+100)
	for i := range data {
		data[i] = 'a'
	}

	data[BinarySniffLength+50] = 0x00

	assert.False(t, IsBinary(data))
}

func TestLineEnd(t *testing.T) {
	t.Parallel()

	data := []byte("import os\n__all__ = ['os']  # noqa: ALL\nx = 1")

	tests := []struct {
		name   string
		offset int
		want   int
	}{
		{name: "first line", offset: 3, want: 10},
		{name: "line start", offset: 10, want: 40},
		{name: "unterminated last line", offset: 42, want: len(data)},
		{name: "past end", offset: 1000, want: len(data)},
		{name: "negative", offset: -4, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, LineEnd(data, tt.offset))
		})
	}
}

func TestLineEnd_CRLF(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, LineEnd([]byte("a = 1\r\nb = 2\r\n"), 0))
}
