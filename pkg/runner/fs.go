package runner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrDirectoryPath indicates a file operation was attempted on a directory.
	ErrDirectoryPath = errors.New("path points to a directory")
	// ErrEmptyPath indicates a path argument was empty.
	ErrEmptyPath = errors.New("path is empty")
	// ErrPathContainsNUL indicates the path contains a NUL byte.
	ErrPathContainsNUL = errors.New("path contains NUL byte")
)

// FileSystem reads and writes the files a Runner processes.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}

// OSFileSystem is the FileSystem backed by the operating system.
type OSFileSystem struct{}

// ReadFile validates path and returns its content.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	resolved, _, err := resolveFilePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path %q: %w", path, err)
	}

	//nolint:gosec // resolved is normalized and existence/type checked in resolveFilePath.
	content, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", resolved, err)
	}

	return content, nil
}

// WriteFile replaces the content of an existing file, keeping its mode.
func (OSFileSystem) WriteFile(path string, data []byte) error {
	resolved, info, err := resolveFilePath(path)
	if err != nil {
		return fmt.Errorf("resolve path %q: %w", path, err)
	}

	err = os.WriteFile(resolved, data, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("write %s: %w", resolved, err)
	}

	return nil
}

func resolveFilePath(path string) (string, os.FileInfo, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil, ErrEmptyPath
	}

	if strings.ContainsRune(path, '\x00') {
		return "", nil, fmt.Errorf("%w: %q", ErrPathContainsNUL, path)
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", nil, fmt.Errorf("resolve absolute path for %q: %w", path, err)
	}

	//nolint:gosec // absPath is normalized by filepath.Clean + filepath.Abs.
	info, err := os.Stat(absPath)
	if err != nil {
		return "", nil, fmt.Errorf("stat %s: %w", absPath, err)
	}

	if info.IsDir() {
		return "", nil, fmt.Errorf("%w: %s", ErrDirectoryPath, absPath)
	}

	return absPath, info, nil
}
