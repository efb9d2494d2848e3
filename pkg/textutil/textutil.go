// Package textutil provides byte-level text utilities: binary detection
// and line-end lookups over raw source buffers.
package textutil

import (
	"bytes"
)

// BinarySniffLength is the maximum number of bytes scanned for null-byte
// detection. Matches the heuristic used by Git and most editors.
const BinarySniffLength = 8000

// IsBinary returns true if data contains a null byte within the first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// LineEnd returns the offset just past the newline terminating the line that
// contains offset, or len(data) when that line is the last, unterminated one.
func LineEnd(data []byte, offset int) int {
	offset = clamp(offset, len(data))

	idx := bytes.IndexByte(data[offset:], '\n')
	if idx < 0 {
		return len(data)
	}

	return offset + idx + 1
}

func clamp(offset, length int) int {
	if offset < 0 {
		return 0
	}

	if offset > length {
		return length
	}

	return offset
}
