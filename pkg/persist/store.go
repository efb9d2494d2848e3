package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store reads and writes one state value of type T at dir/basename+ext.
type Store[T any] struct {
	codec    Codec
	dir      string
	basename string
}

// NewStore returns a Store for dir/basename using codec.
func NewStore[T any](dir, basename string, codec Codec) *Store[T] {
	return &Store[T]{codec: codec, dir: dir, basename: basename}
}

// Path is the backing file.
func (s *Store[T]) Path() string {
	return filepath.Join(s.dir, s.basename+s.codec.Extension())
}

// Load decodes the stored state. found is false when no file exists yet.
func (s *Store[T]) Load() (state T, found bool, err error) {
	file, err := os.Open(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return state, false, nil
	}

	if err != nil {
		return state, false, fmt.Errorf("open state file: %w", err)
	}
	defer file.Close()

	err = s.codec.Decode(file, &state)
	if err != nil {
		return state, false, fmt.Errorf("decode %s: %w", s.Path(), err)
	}

	return state, true, nil
}

// Save writes state to a temporary file and renames it into place, so
// concurrent readers see either the old or the new state.
func (s *Store[T]) Save(state T) error {
	err := os.MkdirAll(s.dir, 0o750)
	if err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, s.basename+".*.tmp")
	if err != nil {
		return fmt.Errorf("create state file: %w", err)
	}

	tmpName := tmp.Name()

	encodeErr := s.codec.Encode(tmp, state)
	closeErr := tmp.Close()

	if err = errors.Join(encodeErr, closeErr); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("write %s: %w", tmpName, err)
	}

	err = os.Rename(tmpName, s.Path())
	if err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}
