// Package report renders a runner.Report for humans or machines.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/initall/pkg/runner"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned by Write for an unsupported format.
var ErrUnknownFormat = errors.New("unknown report format")

// Options controls rendering.
type Options struct {
	Format string
	Mode   runner.Mode
	// Diff shows unified diffs for files that would be reformatted.
	Diff bool
	// Color enables ANSI colours; terminal detection still applies.
	Color bool
	// Verbose also lists files that need no change.
	Verbose bool
	// Quiet lists only files that need attention and omits the summary.
	Quiet bool
}

// Write renders rep to w in the configured format.
func Write(w io.Writer, rep runner.Report, opts Options) error {
	switch opts.Format {
	case "", FormatText:
		return newTextWriter(w, opts).write(rep)
	case FormatJSON:
		return writeJSON(w, rep, opts.Mode)
	case FormatYAML:
		return writeYAML(w, rep, opts.Mode)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

type textWriter struct {
	out     io.Writer
	palette map[runner.Status]*color.Color
	added   *color.Color
	removed *color.Color
	hunk    *color.Color
	opts    Options
}

func newTextWriter(w io.Writer, opts Options) *textWriter {
	tw := &textWriter{
		out: w,
		palette: map[runner.Status]*color.Color{
			runner.StatusInSync:        color.New(color.FgGreen),
			runner.StatusWouldReformat: color.New(color.FgYellow, color.Bold),
			runner.StatusReformatted:   color.New(color.FgCyan, color.Bold),
			runner.StatusMalformed:     color.New(color.FgRed),
			runner.StatusSuppressed:    color.New(color.FgHiBlack),
			runner.StatusParseError:    color.New(color.FgRed, color.Bold),
			runner.StatusIOError:       color.New(color.FgRed, color.Bold),
		},
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		hunk:    color.New(color.FgCyan),
		opts:    opts,
	}

	if !opts.Color {
		for _, c := range tw.palette {
			c.DisableColor()
		}

		tw.added.DisableColor()
		tw.removed.DisableColor()
		tw.hunk.DisableColor()
	}

	return tw
}

func (tw *textWriter) write(rep runner.Report) error {
	for _, file := range rep.Files {
		err := tw.writeFile(file)
		if err != nil {
			return err
		}
	}

	if tw.opts.Quiet {
		return nil
	}

	return writeSummary(tw.out, rep, tw.opts.Mode)
}

func (tw *textWriter) writeFile(file runner.FileResult) error {
	if !tw.opts.Verbose && (file.Status == runner.StatusInSync || file.Status == runner.StatusSuppressed) {
		return nil
	}

	label := tw.palette[file.Status].Sprint(file.Status.String())
	location := file.Path

	if file.Result.Line > 0 {
		location = fmt.Sprintf("%s:%d", file.Path, file.Result.Line)
	}

	var err error

	switch {
	case file.Status == runner.StatusParseError || file.Status == runner.StatusIOError:
		_, err = fmt.Fprintf(tw.out, "%s: %v\n", label, file.Err)
	case file.Status == runner.StatusMalformed:
		_, err = fmt.Fprintf(tw.out, "%s: %s: %s\n", label, location, file.Result.Reason)
	default:
		_, err = fmt.Fprintf(tw.out, "%s: %s\n", label, location)
	}

	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if file.Status != runner.StatusWouldReformat && file.Status != runner.StatusReformatted {
		return nil
	}

	if !tw.opts.Quiet {
		err = tw.writeDetails(file)
		if err != nil {
			return err
		}
	}

	if tw.opts.Diff && file.Status == runner.StatusWouldReformat {
		return tw.writeDiff(file.Diff)
	}

	return nil
}

func (tw *textWriter) writeDetails(file runner.FileResult) error {
	details := []struct {
		label string
		names []string
	}{
		{"missing", file.Result.Missing},
		{"extra", file.Result.Extra},
		{"duplicate", file.Result.Duplicates},
	}

	var buf strings.Builder

	if file.Result.Inserted {
		buf.WriteString("    no __all__ declared\n")
	}

	for _, d := range details {
		if len(d.names) > 0 && !(file.Result.Inserted && d.label == "missing") {
			fmt.Fprintf(&buf, "    %s: %s\n", d.label, strings.Join(d.names, ", "))
		}
	}

	for _, name := range file.Result.Extra {
		if match, ok := file.Result.Suggestions[name]; ok {
			fmt.Fprintf(&buf, "    %s: did you mean %s?\n", name, match)
		}
	}

	if file.Result.Unsorted {
		buf.WriteString("    not sorted\n")
	}

	if file.Result.Directive != "" {
		fmt.Fprintf(&buf, "    note: silence with %q\n", file.Result.Directive)
	}

	_, err := io.WriteString(tw.out, buf.String())
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func (tw *textWriter) writeDiff(diff string) error {
	for line := range strings.Lines(diff) {
		var err error

		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			_, err = io.WriteString(tw.out, line)
		case strings.HasPrefix(line, "+"):
			_, err = tw.added.Fprintln(tw.out, strings.TrimSuffix(line, "\n"))
		case strings.HasPrefix(line, "-"):
			_, err = tw.removed.Fprintln(tw.out, strings.TrimSuffix(line, "\n"))
		case strings.HasPrefix(line, "@@"):
			_, err = tw.hunk.Fprintln(tw.out, strings.TrimSuffix(line, "\n"))
		default:
			_, err = io.WriteString(tw.out, line)
		}

		if err != nil {
			return fmt.Errorf("write diff: %w", err)
		}
	}

	return nil
}
