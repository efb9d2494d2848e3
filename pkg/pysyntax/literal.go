package pysyntax

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Node type names of the Python grammar used across the module.
const (
	TypeModule              = "module"
	TypeComment             = "comment"
	TypeIdentifier          = "identifier"
	TypeKeywordIdentifier   = "keyword_identifier"
	TypeString              = "string"
	TypeList                = "list"
	TypeTuple               = "tuple"
	TypeBlock               = "block"
	TypeExpressionStatement = "expression_statement"
)

const (
	tripleQuoteLen = 3
	rawPrefixes    = "rRuU"
)

// StringLiteral decodes the text of a plain Python string literal such as
// 'name', "name", r'name' or '''name'''. Literals that are not plain text
// (bytes, f-strings, or anything carrying escape sequences) are rejected.
func StringLiteral(text string) (value string, quote byte, ok bool) {
	prefixLen := 0

	for prefixLen < len(text) && text[prefixLen] != '\'' && text[prefixLen] != '"' {
		if !strings.ContainsRune(rawPrefixes, rune(text[prefixLen])) {
			return "", 0, false
		}

		prefixLen++
	}

	body := text[prefixLen:]
	if len(body) < 2 {
		return "", 0, false
	}

	quote = body[0]
	delim := string(quote)

	if len(body) >= 2*tripleQuoteLen && strings.HasPrefix(body, strings.Repeat(delim, tripleQuoteLen)) {
		delim = strings.Repeat(delim, tripleQuoteLen)
	}

	if len(body) < 2*len(delim) || !strings.HasPrefix(body, delim) || !strings.HasSuffix(body, delim) {
		return "", 0, false
	}

	value = body[len(delim) : len(body)-len(delim)]

	raw := strings.ContainsAny(text[:prefixLen], "rR")
	if !raw && strings.ContainsRune(value, '\\') {
		return "", 0, false
	}

	return value, quote, true
}

// IsName reports whether n is an identifier-like node.
func IsName(n sitter.Node) bool {
	typ := n.Type()

	return typ == TypeIdentifier || typ == TypeKeywordIdentifier
}

// NamedChildren returns the named children of n, skipping comments.
func NamedChildren(n sitter.Node) []sitter.Node {
	count := n.NamedChildCount()
	children := make([]sitter.Node, 0, count)

	for idx := range count {
		child := n.NamedChild(idx)
		if child.Type() == TypeComment {
			continue
		}

		children = append(children, child)
	}

	return children
}

// SameNode reports whether a and b cover the same source range with the same type.
func SameNode(a, b sitter.Node) bool {
	if a.IsNull() || b.IsNull() {
		return false
	}

	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
