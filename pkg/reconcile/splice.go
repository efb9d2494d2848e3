package reconcile

import (
	"bytes"

	"github.com/Sumatoshi-tech/initall/pkg/exports"
)

// Splice returns a copy of content with text in place of the declared
// __all__, or inserted at mod.InsertAt when no declaration exists. An
// inserted declaration is separated from its neighbours by blank lines.
func Splice(content []byte, mod *exports.Module, text string) []byte {
	if mod.Declared.Present {
		span := mod.Declared.Span

		out := make([]byte, 0, len(content)-(span.End-span.Start)+len(text))
		out = append(out, content[:span.Start]...)
		out = append(out, text...)
		out = append(out, content[span.End:]...)

		return out
	}

	newline := []byte(lineEnding(content))
	insertAt := min(max(mod.InsertAt, 0), len(content))
	before, after := content[:insertAt], content[insertAt:]

	var out bytes.Buffer

	out.Grow(len(content) + len(text) + 3*len(newline))
	out.Write(before)

	if len(before) > 0 {
		if !bytes.HasSuffix(before, newline) {
			out.Write(newline)
		}

		out.Write(newline)
	}

	out.WriteString(text)
	out.Write(newline)

	if len(after) > 0 && !bytes.HasPrefix(after, newline) {
		out.Write(newline)
	}

	out.Write(after)

	return out.Bytes()
}
