package config

import (
	"os"
	"path/filepath"
)

// projectMarkers identify the top of a Python project.
var projectMarkers = []string{".git", ".hg", pyprojectName, configName + "." + configType}

// FindProjectRoot returns the nearest ancestor of the first path that holds
// a project marker, or "." when none does.
func FindProjectRoot(paths []string) string {
	if len(paths) == 0 {
		return "."
	}

	start, err := filepath.Abs(paths[0])
	if err != nil {
		return "."
	}

	info, err := os.Stat(start)
	if err != nil || !info.IsDir() {
		start = filepath.Dir(start)
	}

	for dir := start; ; {
		for _, marker := range projectMarkers {
			_, statErr := os.Stat(filepath.Join(dir, marker))
			if statErr == nil {
				return dir
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}

		dir = parent
	}
}
