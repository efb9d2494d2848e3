// Package discovery finds package initializer files under a set of roots.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Sentinel errors reported for skipped roots.
var (
	ErrNotInitializer = errors.New("not a package initializer")
	ErrBadPattern     = errors.New("invalid glob pattern")
)

// DefaultPatterns are the base names treated as package initializers.
func DefaultPatterns() []string {
	return []string{"__init__.py"}
}

// DefaultExcludes are directory globs never descended into.
func DefaultExcludes() []string {
	return []string{
		"**/.git/**",
		"**/.hg/**",
		"**/.venv/**",
		"**/venv/**",
		"**/.tox/**",
		"**/.nox/**",
		"**/node_modules/**",
		"**/__pycache__/**",
		"**/build/**",
		"**/dist/**",
	}
}

// Options controls discovery.
type Options struct {
	// Patterns are doublestar globs matched against file base names.
	Patterns []string
	// Exclude are doublestar globs matched against slash-separated paths.
	Exclude []string
}

// Discover returns matching files under roots in a stable order: roots in
// the given order, lexical walk order within each directory root, with
// duplicates removed. Roots that cannot be used are reported as warnings
// and skipped.
func Discover(roots []string, opts Options) ([]string, []error) {
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}

	for _, pat := range append(append([]string(nil), patterns...), opts.Exclude...) {
		if !doublestar.ValidatePattern(pat) {
			return nil, []error{fmt.Errorf("%w: %q", ErrBadPattern, pat)}
		}
	}

	d := &discoverer{
		patterns: patterns,
		exclude:  opts.Exclude,
		seen:     make(map[string]bool),
	}

	for _, root := range roots {
		d.root(root)
	}

	return d.files, d.warnings
}

type discoverer struct {
	seen     map[string]bool
	patterns []string
	exclude  []string
	files    []string
	warnings []error
}

func (d *discoverer) root(root string) {
	info, err := os.Stat(root)
	if err != nil {
		d.warnings = append(d.warnings, fmt.Errorf("skip %s: %w", root, err))

		return
	}

	if !info.IsDir() {
		if !d.matches(root) {
			d.warnings = append(d.warnings, fmt.Errorf("skip %s: %w", root, ErrNotInitializer))

			return
		}

		d.add(root)

		return
	}

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			d.warnings = append(d.warnings, fmt.Errorf("skip %s: %w", path, walkDirErr))

			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil //nolint:nilerr // skip paths that cannot be made relative
		}

		if rel != "." && d.excluded(rel, entry.IsDir()) {
			if entry.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if entry.Type().IsRegular() && d.matches(path) {
			d.add(path)
		}

		return nil
	})
	if walkErr != nil {
		d.warnings = append(d.warnings, fmt.Errorf("walk %s: %w", root, walkErr))
	}
}

func (d *discoverer) add(path string) {
	clean := filepath.Clean(path)
	if d.seen[clean] {
		return
	}

	d.seen[clean] = true
	d.files = append(d.files, clean)
}

func (d *discoverer) matches(path string) bool {
	base := filepath.Base(path)

	for _, pat := range d.patterns {
		if matched, matchErr := doublestar.Match(pat, base); matchErr == nil && matched {
			return true
		}
	}

	return false
}

// excluded matches a root-relative path against the exclude globs.
// Directories are also tested with a trailing slash so "**/venv/**" prunes
// the venv directory itself.
func (d *discoverer) excluded(rel string, isDir bool) bool {
	normalized := filepath.ToSlash(rel)

	candidates := []string{normalized}
	if isDir {
		candidates = append(candidates, normalized+"/")
	}

	for _, pat := range d.exclude {
		for _, candidate := range candidates {
			if matched, matchErr := doublestar.Match(pat, candidate); matchErr == nil && matched {
				return true
			}
		}
	}

	return false
}
