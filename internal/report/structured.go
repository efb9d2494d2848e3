package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/initall/pkg/runner"
)

type document struct {
	Mode     string     `json:"mode"      yaml:"mode"`
	Files    []fileItem `json:"files"     yaml:"files"`
	Summary  summary    `json:"summary"   yaml:"summary"`
	Bytes    uint64     `json:"bytes"     yaml:"bytes"`
	ExitCode int        `json:"exit_code" yaml:"exit_code"`
}

type fileItem struct {
	Path        string            `json:"path"                  yaml:"path"`
	Status      string            `json:"status"                yaml:"status"`
	Error       string            `json:"error,omitempty"       yaml:"error,omitempty"`
	Reason      string            `json:"reason,omitempty"      yaml:"reason,omitempty"`
	Directive   string            `json:"directive,omitempty"   yaml:"directive,omitempty"`
	Diff        string            `json:"diff,omitempty"        yaml:"diff,omitempty"`
	Canonical   []string          `json:"canonical,omitempty"   yaml:"canonical,omitempty"`
	Missing     []string          `json:"missing,omitempty"     yaml:"missing,omitempty"`
	Extra       []string          `json:"extra,omitempty"       yaml:"extra,omitempty"`
	Duplicates  []string          `json:"duplicates,omitempty"  yaml:"duplicates,omitempty"`
	Suggestions map[string]string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Size        int               `json:"size"                  yaml:"size"`
	Line        int               `json:"line,omitempty"        yaml:"line,omitempty"`
	Unsorted    bool              `json:"unsorted,omitempty"    yaml:"unsorted,omitempty"`
	Inserted    bool              `json:"inserted,omitempty"    yaml:"inserted,omitempty"`
	Written     bool              `json:"written"               yaml:"written"`
	Cached      bool              `json:"cached,omitempty"      yaml:"cached,omitempty"`
}

type summary struct {
	InSync        int `json:"in_sync"        yaml:"in_sync"`
	WouldReformat int `json:"would_reformat" yaml:"would_reformat"`
	Reformatted   int `json:"reformatted"    yaml:"reformatted"`
	Malformed     int `json:"malformed"      yaml:"malformed"`
	Suppressed    int `json:"suppressed"     yaml:"suppressed"`
	ParseErrors   int `json:"parse_errors"   yaml:"parse_errors"`
	IOErrors      int `json:"io_errors"      yaml:"io_errors"`
}

func buildDocument(rep runner.Report, mode runner.Mode) document {
	doc := document{
		Mode:  mode.String(),
		Files: make([]fileItem, 0, len(rep.Files)),
		Summary: summary{
			InSync:        rep.Count(runner.StatusInSync),
			WouldReformat: rep.Count(runner.StatusWouldReformat),
			Reformatted:   rep.Count(runner.StatusReformatted),
			Malformed:     rep.Count(runner.StatusMalformed),
			Suppressed:    rep.Count(runner.StatusSuppressed),
			ParseErrors:   rep.Count(runner.StatusParseError),
			IOErrors:      rep.Count(runner.StatusIOError),
		},
		Bytes:    rep.Bytes(),
		ExitCode: rep.ExitCode(),
	}

	for _, f := range rep.Files {
		item := fileItem{
			Path:        f.Path,
			Status:      f.Status.String(),
			Reason:      f.Result.Reason,
			Directive:   f.Result.Directive,
			Canonical:   f.Result.Canonical,
			Missing:     f.Result.Missing,
			Extra:       f.Result.Extra,
			Duplicates:  f.Result.Duplicates,
			Suggestions: f.Result.Suggestions,
			Size:        f.Size,
			Line:        f.Result.Line,
			Unsorted:    f.Result.Unsorted,
			Inserted:    f.Result.Inserted,
			Written:     f.Written,
			Cached:      f.Cached,
		}

		if f.Err != nil {
			item.Error = f.Err.Error()
		}

		if f.Status == runner.StatusWouldReformat {
			item.Diff = f.Diff
		}

		doc.Files = append(doc.Files, item)
	}

	return doc
}

func writeJSON(w io.Writer, rep runner.Report, mode runner.Mode) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(buildDocument(rep, mode))
	if err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}

	return nil
}

func writeYAML(w io.Writer, rep runner.Report, mode runner.Mode) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err := enc.Encode(buildDocument(rep, mode))
	if err != nil {
		return fmt.Errorf("encode yaml report: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("encode yaml report: %w", err)
	}

	return nil
}
