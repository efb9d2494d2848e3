package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/initall/pkg/runner"
)

// writeSummary prints a one-line verdict followed by a table of non-zero
// status counts.
func writeSummary(w io.Writer, rep runner.Report, mode runner.Mode) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault

	tbl.AppendHeader(table.Row{"status", "files"})

	for _, status := range runner.Statuses() {
		if n := rep.Count(status); n > 0 {
			tbl.AppendRow(table.Row{status.String(), n})
		}
	}

	tbl.AppendFooter(table.Row{
		fmt.Sprintf("Total: %s, %s scanned", plural(len(rep.Files)), humanize.Bytes(rep.Bytes())),
	})

	_, err := fmt.Fprintf(w, "\n%s\n%s\n", headline(rep, mode), tbl.Render())
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}

// headline is the Black-style summary sentence.
func headline(rep runner.Report, mode runner.Mode) string {
	changed := rep.Count(runner.StatusWouldReformat)
	verb := "would be reformatted"

	if mode == runner.Fix {
		changed = rep.Count(runner.StatusReformatted)
		verb = "reformatted"
	}

	unchanged := rep.Count(runner.StatusInSync) + rep.Count(runner.StatusSuppressed)
	failed := rep.Count(runner.StatusParseError) + rep.Count(runner.StatusIOError) + rep.Count(runner.StatusMalformed)

	var parts []string

	if changed > 0 {
		parts = append(parts, fmt.Sprintf("%s %s", plural(changed), verb))
	}

	if unchanged > 0 {
		parts = append(parts, plural(unchanged)+" left unchanged")
	}

	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%s failed", plural(failed)))
	}

	if len(parts) == 0 {
		return "No files checked."
	}

	return strings.Join(parts, ", ") + "."
}

func plural(n int) string {
	if n == 1 {
		return "1 file"
	}

	return humanize.Comma(int64(n)) + " files"
}
