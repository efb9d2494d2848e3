package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const pyprojectName = "pyproject.toml"

type pyproject struct {
	Tool struct {
		Initall map[string]any `toml:"initall"`
	} `toml:"tool"`
}

// readPyproject returns the [tool.initall] table of path with dashed keys
// normalised to underscores. found is false when the file or table is absent.
func readPyproject(path string) (section map[string]any, found bool, err error) {
	//nolint:gosec // path is the project's own pyproject.toml.
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}

	var doc pyproject

	err = toml.Unmarshal(data, &doc)
	if err != nil {
		return nil, false, fmt.Errorf("parse %s: %w", path, err)
	}

	if doc.Tool.Initall == nil {
		return nil, false, nil
	}

	return normalizeKeys(doc.Tool.Initall), true, nil
}

func normalizeKeys(table map[string]any) map[string]any {
	out := make(map[string]any, len(table))

	for key, value := range table {
		if nested, ok := value.(map[string]any); ok {
			value = normalizeKeys(nested)
		}

		out[strings.ReplaceAll(key, "-", "_")] = value
	}

	return out
}
