package pysyntax

import (
	"errors"
	"fmt"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// ErrParse is matched by every *ParseError.
var ErrParse = errors.New("parse error")

// errorNodeType is the node type tree-sitter uses for unparsable input.
const errorNodeType = "ERROR"

// ParseError reports source that could not be parsed into statements.
// Line and Column are 1-based; zero when the position is unknown.
type ParseError struct {
	Path   string
	Reason string
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "invalid syntax"
	}

	if e.Line == 0 {
		return fmt.Sprintf("%s: %s: %s", e.Path, ErrParse, reason)
	}

	return fmt.Sprintf("%s:%d:%d: %s: %s", e.Path, e.Line, e.Column, ErrParse, reason)
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func newParseError(path string, root sitter.Node) *ParseError {
	parseErr := &ParseError{Path: path}

	bad, found := firstErrorNode(root)
	if !found {
		return parseErr
	}

	point := bad.StartPoint()
	parseErr.Line = int(point.Row) + 1      //nolint:gosec // tree-sitter coordinates fit in int
	parseErr.Column = int(point.Column) + 1 //nolint:gosec // tree-sitter coordinates fit in int

	if bad.IsMissing() {
		parseErr.Reason = fmt.Sprintf("missing %q", bad.Type())
	} else {
		parseErr.Reason = "invalid syntax"
	}

	return parseErr
}

// firstErrorNode returns the first ERROR or missing node in document order.
func firstErrorNode(n sitter.Node) (sitter.Node, bool) {
	if n.Type() == errorNodeType || n.IsMissing() {
		return n, true
	}

	if !n.HasError() {
		return sitter.Node{}, false
	}

	for idx := range n.ChildCount() {
		found, ok := firstErrorNode(n.Child(idx))
		if ok {
			return found, true
		}
	}

	return sitter.Node{}, false
}
