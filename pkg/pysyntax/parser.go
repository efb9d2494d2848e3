// Package pysyntax wraps the tree-sitter Python grammar: a pooled parser,
// typed parse errors, and helpers for reading literal nodes.
package pysyntax

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexaandru/go-sitter-forest/python"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Sentinel errors for parser setup.
var (
	errLanguageNotAvailable = errors.New("tree-sitter python grammar not available")
	errPoolType             = errors.New("pysyntax: pool returned unexpected type")
	errNoRootNode           = errors.New("pysyntax: no root node")
)

// Parser parses Python source into tree-sitter trees.
// It is safe for concurrent use; each call borrows its own tree-sitter parser.
type Parser struct {
	language *sitter.Language
	pool     sync.Pool
}

// NewParser loads the Python grammar and prepares the parser pool.
func NewParser() (*Parser, error) {
	var lang *sitter.Language

	func() {
		defer func() {
			_ = recover() //nolint:errcheck // recover() returns any, not error
		}()

		lang = sitter.NewLanguage(python.GetLanguage())
	}()

	if lang == nil {
		return nil, errLanguageNotAvailable
	}

	parser := &Parser{language: lang}
	parser.pool = sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(lang)

			return tsParser
		},
	}

	return parser, nil
}

// Tree is a parsed Python module. Callers must Close it.
type Tree struct {
	tree   *sitter.Tree
	source []byte
}

// Root returns the module node.
func (t *Tree) Root() sitter.Node {
	return t.tree.RootNode()
}

// Source returns the bytes the tree was parsed from.
func (t *Tree) Source() []byte {
	return t.source
}

// Text returns the source text spanned by n.
func (t *Tree) Text(n sitter.Node) string {
	return n.Content(t.source)
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	t.tree.Close()
}

// Parse parses content. A tree containing syntax errors is rejected with a
// *ParseError naming path and the first offending position.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*Tree, error) {
	tsParser, ok := p.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer p.pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, &ParseError{Path: path, Reason: err.Error()}
	}

	root := tree.RootNode()
	if root.IsNull() {
		tree.Close()

		return nil, fmt.Errorf("%s: %w", path, errNoRootNode)
	}

	if root.HasError() {
		parseErr := newParseError(path, root)
		tree.Close()

		return nil, parseErr
	}

	return &Tree{tree: tree, source: content}, nil
}
