// Package exports infers the public export surface of a Python package
// initializer and locates its declared __all__ list.
package exports

import (
	"slices"
)

// ExportVar is the module variable holding the export list.
const ExportVar = "__all__"

// Names is an unordered, duplicate-free set of public names.
type Names map[string]struct{}

// NewNames builds a set from names.
func NewNames(names ...string) Names {
	set := make(Names, len(names))
	for _, name := range names {
		set.Add(name)
	}

	return set
}

// Add inserts name.
func (n Names) Add(name string) {
	n[name] = struct{}{}
}

// Has reports whether name is in the set.
func (n Names) Has(name string) bool {
	_, ok := n[name]

	return ok
}

// Sorted returns the names in code-point order.
func (n Names) Sorted() []string {
	out := make([]string, 0, len(n))
	for name := range n {
		out = append(out, name)
	}

	slices.Sort(out)

	return out
}

// ValueKind classifies the right-hand side of an __all__ assignment.
type ValueKind int

const (
	// LiteralStrings is a list or tuple made only of plain string literals.
	LiteralStrings ValueKind = iota
	// Opaque is any other expression; it is never rewritten.
	Opaque
)

func (k ValueKind) String() string {
	if k == LiteralStrings {
		return "literal"
	}

	return "opaque"
}

// Span is a half-open byte range [Start, End) in the source.
type Span struct {
	Start int
	End   int
}

// DeclaredList is the __all__ assignment found at module scope.
type DeclaredList struct {
	// ElementComments maps a name to the comment trailing it on its line.
	ElementComments map[string]string
	// Values holds the literal names in source order, duplicates kept.
	Values []string
	// Comments are the other comments of the declaration in source order,
	// including the one trailing its last line. Suppression directives always
	// land here, even when they follow an element.
	Comments []string
	// Annotation is the type annotation text of an annotated assignment.
	Annotation string
	// Reason explains why the list is Opaque.
	Reason string
	// Span covers the statement and a comment trailing its last line.
	Span    Span
	Line    int
	Kind    ValueKind
	Present bool
}

// Rewritable reports whether the list can be replaced in place.
func (d DeclaredList) Rewritable() bool {
	return !d.Present || d.Kind == LiteralStrings
}

// Suppression is a "# noqa: ALL" directive in a comment of the __all__
// declaration.
type Suppression struct {
	// Names are exempt from the missing/extra comparison.
	Names Names
	// All disables checking of the file entirely.
	All bool
}

// Module is the extraction result for one source file.
type Module struct {
	Public      Names
	Suppression Suppression
	Path        string
	// StarImports lists modules imported with "from m import *".
	StarImports []string
	Declared    DeclaredList
	// InsertAt is the byte offset where a missing __all__ is inserted.
	InsertAt int
}
