// Package reconcile compares a module's inferred public names with its
// declared __all__ and renders the canonical replacement.
package reconcile

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Sumatoshi-tech/initall/pkg/exports"
)

// DefaultLineLength is the wrap limit used when none is configured.
const DefaultLineLength = 120

const indent = "    "

// ErrInvalidLineLength is returned for a line length below one.
var ErrInvalidLineLength = errors.New("line length must be at least 1")

// QuoteStyle selects the quote character for emitted names.
type QuoteStyle int

// Quote styles.
const (
	SingleQuotes QuoteStyle = iota
	DoubleQuotes
)

// Char returns the quote character.
func (q QuoteStyle) Char() string {
	if q == DoubleQuotes {
		return `"`
	}

	return `'`
}

func (q QuoteStyle) String() string {
	if q == DoubleQuotes {
		return "double"
	}

	return "single"
}

// FormatConfig controls how a declaration is rendered.
type FormatConfig struct {
	LineLength int
	Quote      QuoteStyle
}

// DefaultFormatConfig returns single quotes wrapped at DefaultLineLength.
func DefaultFormatConfig() FormatConfig {
	return FormatConfig{LineLength: DefaultLineLength, Quote: SingleQuotes}
}

// Validate checks the configuration.
func (c FormatConfig) Validate() error {
	if c.LineLength < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidLineLength, c.LineLength)
	}

	return nil
}

// Format renders "__all__ = [...]" for names, which must already be in
// canonical order. The declaration stays on one line when it fits;
// otherwise names are packed greedily onto indented lines, each name
// followed by a comma. The indent shrinks when a name would otherwise
// overflow, and a comma that does not fit moves to the next line. A name is
// never split, so a single name longer than the limit occupies a line of its
// own.
func Format(names []string, cfg FormatConfig) string {
	return formatDeclaration(exports.ExportVar, names, comments{}, cfg)
}

// comments are carried over from the replaced declaration. They do not count
// towards the line length.
type comments struct {
	elements map[string]string
	// head trails the opening line, or the whole declaration when it fits
	// on one line.
	head string
}

func declarationComments(declared exports.DeclaredList) comments {
	return comments{
		elements: declared.ElementComments,
		head:     strings.Join(declared.Comments, "  "),
	}
}

func (c comments) anyElement(names []string) bool {
	for _, name := range names {
		if _, ok := c.elements[name]; ok {
			return true
		}
	}

	return false
}

func withComment(line, comment string) string {
	if comment == "" {
		return line
	}

	return line + "  " + comment
}

func formatDeclaration(head string, names []string, notes comments, cfg FormatConfig) string {
	quote := cfg.Quote.Char()

	items := make([]string, len(names))
	for i, name := range names {
		items[i] = quote + name + quote
	}

	single := head + " = [" + strings.Join(items, ", ") + "]"
	if !notes.anyElement(names) && (len(items) == 0 || width(single) <= cfg.LineLength) {
		return withComment(single, notes.head)
	}

	p := packer{limit: cfg.LineLength}

	for i, item := range items {
		p.add(item)

		if comment, ok := notes.elements[names[i]]; ok {
			p.annotate(comment)
		}
	}

	p.flush()

	return withComment(head+" = [", notes.head) + "\n" + strings.Join(p.lines, "\n") + "\n]"
}

// packer fills indented lines greedily with "item," pieces.
type packer struct {
	current string
	lines   []string
	limit   int
}

func (p *packer) add(item string) {
	piece := item + ","

	if p.current != "" {
		if candidate := p.current + " " + piece; width(candidate) <= p.limit {
			p.current = candidate

			return
		}

		p.flush()
	}

	if width(piece) > p.limit && width(item) <= p.limit {
		p.lines = append(p.lines, p.indented(item))
		p.current = ","

		return
	}

	p.current = p.indented(piece)
}

// indented prefixes text with as much of the indent as the limit allows.
// Text longer than the limit keeps the full indent.
func (p *packer) indented(text string) string {
	room := p.limit - width(text)
	if room >= len(indent) || room < 0 {
		return indent + text
	}

	return indent[:room] + text
}

// annotate ends the line of the most recent item with comment.
func (p *packer) annotate(comment string) {
	if p.current == "," {
		last := len(p.lines) - 1
		p.lines[last] = withComment(p.lines[last], comment)

		return
	}

	p.current = withComment(p.current, comment)
	p.flush()
}

func (p *packer) flush() {
	if p.current != "" {
		p.lines = append(p.lines, p.current)
		p.current = ""
	}
}

func declarationHead(declared exports.DeclaredList) string {
	if declared.Annotation == "" {
		return exports.ExportVar
	}

	return exports.ExportVar + ": " + declared.Annotation
}

func width(line string) int {
	return utf8.RuneCountInString(line)
}
