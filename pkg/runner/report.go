package runner

import (
	"fmt"

	"github.com/Sumatoshi-tech/initall/pkg/reconcile"
)

// Process exit codes derived from a Report.
const (
	ExitOK      = 0
	ExitChanged = 1
	ExitError   = 2
)

// Status is the per-file outcome shown to the user.
type Status int

// Statuses.
const (
	StatusInSync Status = iota
	StatusWouldReformat
	StatusReformatted
	StatusMalformed
	StatusSuppressed
	StatusParseError
	StatusIOError
)

var statusNames = map[Status]string{
	StatusInSync:        "in sync",
	StatusWouldReformat: "would reformat",
	StatusReformatted:   "reformatted",
	StatusMalformed:     "malformed",
	StatusSuppressed:    "suppressed",
	StatusParseError:    "parse error",
	StatusIOError:       "i/o error",
}

// Statuses lists every status in display order.
func Statuses() []Status {
	return []Status{
		StatusInSync, StatusWouldReformat, StatusReformatted, StatusMalformed,
		StatusSuppressed, StatusParseError, StatusIOError,
	}
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Failed reports whether the file could not be analysed at all.
func (s Status) Failed() bool {
	return s == StatusParseError || s == StatusIOError
}

// FileResult is the outcome for one file.
type FileResult struct {
	Err    error
	Path   string
	Diff   string
	Result reconcile.Result
	Size   int
	Status Status
	// Written is true when the file was rewritten on disk.
	Written bool
	// Cached is true when the file was skipped as unchanged since its last check.
	Cached bool
}

// Report aggregates a batch.
type Report struct {
	Files []FileResult
}

// Count returns how many files ended with status.
func (r Report) Count(status Status) int {
	n := 0

	for _, f := range r.Files {
		if f.Status == status {
			n++
		}
	}

	return n
}

// Bytes is the total size of every file read.
func (r Report) Bytes() uint64 {
	var total uint64

	for _, f := range r.Files {
		total += uint64(f.Size) //nolint:gosec // sizes are non-negative
	}

	return total
}

// ExitCode maps the batch to a process exit code: errors dominate changes,
// changes dominate success.
func (r Report) ExitCode() int {
	code := ExitOK

	for _, f := range r.Files {
		switch {
		case f.Status.Failed():
			return ExitError
		case f.Status == StatusWouldReformat, f.Status == StatusReformatted, f.Status == StatusMalformed:
			code = ExitChanged
		}
	}

	return code
}
