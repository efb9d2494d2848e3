// Package textdiff renders line-oriented unified diffs.
package textdiff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultContext is the number of unchanged lines shown around each change.
const DefaultContext = 3

const noNewlineMarker = "\\ No newline at end of file\n"

type lineOp struct {
	text      string
	op        diffmatchpatch.Operation
	noNewline bool
}

// Unified returns a unified diff between before and after labelled with
// path, or "" when they are equal.
func Unified(path string, before, after []byte, context int) string {
	if string(before) == string(after) {
		return ""
	}

	context = max(context, 0)
	ops := lineOps(string(before), string(after))

	var out strings.Builder

	fmt.Fprintf(&out, "--- a/%s\n+++ b/%s\n", path, path)

	oldPrefix, newPrefix := prefixCounts(ops)
	floor := 0

	for idx := 0; idx < len(ops); {
		for idx < len(ops) && ops[idx].op == diffmatchpatch.DiffEqual {
			idx++
		}

		if idx == len(ops) {
			break
		}

		start := max(idx-context, floor)
		end := hunkEnd(ops, idx, context)
		stop := min(end+context, len(ops))

		writeHunk(&out, ops[start:stop], oldPrefix[start], newPrefix[start])

		floor = stop
		idx = stop
	}

	return out.String()
}

// hunkEnd returns the index just past the last change that belongs to the
// hunk starting at first; changes separated by more than 2*context
// unchanged lines start a new hunk.
func hunkEnd(ops []lineOp, first, context int) int {
	end := first + 1

	for j := first + 1; j < len(ops); j++ {
		if ops[j].op != diffmatchpatch.DiffEqual {
			end = j + 1

			continue
		}

		if j-end+1 > 2*context {
			break
		}
	}

	return end
}

func writeHunk(out *strings.Builder, hunk []lineOp, oldBefore, newBefore int) {
	oldLen, newLen := 0, 0

	for _, line := range hunk {
		if line.op != diffmatchpatch.DiffInsert {
			oldLen++
		}

		if line.op != diffmatchpatch.DiffDelete {
			newLen++
		}
	}

	fmt.Fprintf(out, "@@ -%s +%s @@\n", hunkRange(oldBefore, oldLen), hunkRange(newBefore, newLen))

	for _, line := range hunk {
		switch line.op {
		case diffmatchpatch.DiffDelete:
			out.WriteByte('-')
		case diffmatchpatch.DiffInsert:
			out.WriteByte('+')
		case diffmatchpatch.DiffEqual:
			out.WriteByte(' ')
		}

		out.WriteString(line.text)
		out.WriteByte('\n')

		if line.noNewline {
			out.WriteString(noNewlineMarker)
		}
	}
}

func hunkRange(before, length int) string {
	if length == 0 {
		return fmt.Sprintf("%d,0", before)
	}

	return fmt.Sprintf("%d,%d", before+1, length)
}

// prefixCounts returns, for every op index, how many old and new lines precede it.
func prefixCounts(ops []lineOp) (oldPrefix, newPrefix []int) {
	oldPrefix = make([]int, len(ops)+1)
	newPrefix = make([]int, len(ops)+1)

	for i, line := range ops {
		oldPrefix[i+1] = oldPrefix[i]
		newPrefix[i+1] = newPrefix[i]

		if line.op != diffmatchpatch.DiffInsert {
			oldPrefix[i+1]++
		}

		if line.op != diffmatchpatch.DiffDelete {
			newPrefix[i+1]++
		}
	}

	return oldPrefix, newPrefix
}

func lineOps(before, after string) []lineOp {
	dmp := diffmatchpatch.New()

	src, dst, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(src, dst, false), lines)

	var ops []lineOp

	for _, diff := range diffs {
		text := diff.Text

		for text != "" {
			idx := strings.IndexByte(text, '\n')
			if idx < 0 {
				ops = append(ops, lineOp{op: diff.Type, text: text, noNewline: true})

				break
			}

			ops = append(ops, lineOp{op: diff.Type, text: text[:idx]})
			text = text[idx+1:]
		}
	}

	return ops
}
