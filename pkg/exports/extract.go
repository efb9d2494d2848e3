package exports

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/initall/pkg/pysyntax"
	"github.com/Sumatoshi-tech/initall/pkg/textutil"
)

// StatementKind is the extraction-relevant class of a statement node.
type StatementKind int

// Statement kinds.
const (
	KindOther StatementKind = iota
	KindImport
	KindImportFrom
	KindFunctionDef
	KindClassDef
	KindAssign
	// KindCompound is a block statement that keeps module scope (if, try, with, for, while).
	KindCompound
)

// Grammar node and field names.
const (
	nodeImport          = "import_statement"
	nodeImportFrom      = "import_from_statement"
	nodeFutureImport    = "future_import_statement"
	nodeFunction        = "function_definition"
	nodeClass           = "class_definition"
	nodeDecorated       = "decorated_definition"
	nodeAssignment      = "assignment"
	nodeAugmented       = "augmented_assignment"
	nodeTypeAlias       = "type_alias_statement"
	nodeAliasedImport   = "aliased_import"
	nodeDottedName      = "dotted_name"
	nodeWildcardImport  = "wildcard_import"
	nodeCall            = "call"
	nodeAttribute       = "attribute"
	nodeConcatenatedStr = "concatenated_string"
	nodeForStatement    = "for_statement"
	nodeWithStatement   = "with_statement"
	nodeWithClause      = "with_clause"
	nodeAsPattern       = "as_pattern"

	fieldName       = "name"
	fieldAlias      = "alias"
	fieldModuleName = "module_name"
	fieldDefinition = "definition"
	fieldLeft       = "left"
	fieldRight      = "right"
	fieldType       = "type"
	fieldFunction   = "function"
	fieldObject     = "object"
	fieldValue      = "value"
)

var compoundStatements = map[string]bool{
	"if_statement":    true,
	"try_statement":   true,
	"with_statement":  true,
	"for_statement":   true,
	"while_statement": true,
}

// targetPatterns are assignment targets that may bind several names.
var targetPatterns = map[string]bool{
	"pattern_list":       true,
	"tuple_pattern":      true,
	"list_pattern":       true,
	"list_splat_pattern": true,
	"expression_list":    true,
	"tuple":              true,
	"list":               true,
}

// Classify maps a statement node onto its StatementKind.
func Classify(stmt sitter.Node) StatementKind {
	switch typ := stmt.Type(); typ {
	case nodeImport:
		return KindImport
	case nodeImportFrom:
		return KindImportFrom
	case nodeFunction:
		return KindFunctionDef
	case nodeClass:
		return KindClassDef
	case nodeDecorated:
		return Classify(stmt.ChildByFieldName(fieldDefinition))
	case nodeTypeAlias:
		return KindAssign
	case pysyntax.TypeExpressionStatement:
		for _, child := range pysyntax.NamedChildren(stmt) {
			if child.Type() == nodeAssignment || child.Type() == nodeAugmented {
				return KindAssign
			}
		}

		return KindOther
	default:
		if compoundStatements[typ] {
			return KindCompound
		}

		return KindOther
	}
}

// Extractor computes the export surface of Python modules.
type Extractor struct {
	parser *pysyntax.Parser
}

// NewExtractor creates an Extractor over parser.
func NewExtractor(parser *pysyntax.Parser) *Extractor {
	return &Extractor{parser: parser}
}

// Extract parses content and returns its public names and declared export list.
// A syntax error yields a *pysyntax.ParseError and no partial result.
func (e *Extractor) Extract(ctx context.Context, path string, content []byte) (*Module, error) {
	tree, err := e.parser.Parse(ctx, path, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	v := &visitor{
		tree: tree,
		mod: &Module{
			Path:   path,
			Public: make(Names),
		},
	}

	root := tree.Root()
	statements := pysyntax.NamedChildren(root)

	for _, stmt := range statements {
		v.visit(stmt, true)
	}

	v.mod.InsertAt = insertionPoint(statements, tree)

	if v.mod.Declared.Present {
		v.mod.Suppression = suppressionOf(v.mod.Declared.Comments)
	}

	return v.mod, nil
}

type visitor struct {
	tree *pysyntax.Tree
	mod  *Module
}

func (v *visitor) visit(stmt sitter.Node, topLevel bool) {
	switch Classify(stmt) {
	case KindImport:
		v.visitImport(stmt)
	case KindImportFrom:
		v.visitImportFrom(stmt)
	case KindFunctionDef, KindClassDef:
		v.visitDefinition(stmt)
	case KindAssign:
		v.visitAssign(stmt, topLevel)
	case KindCompound:
		v.visitCompound(stmt)
	case KindOther:
		v.visitOther(stmt)
	}
}

func (v *visitor) bind(name string) {
	if name == "" || name == ExportVar || strings.HasPrefix(name, "_") {
		return
	}

	v.mod.Public.Add(name)
}

// visitImport binds the alias, or the first component of the dotted module name.
func (v *visitor) visitImport(stmt sitter.Node) {
	for _, child := range pysyntax.NamedChildren(stmt) {
		switch child.Type() {
		case nodeAliasedImport:
			v.bind(v.tree.Text(child.ChildByFieldName(fieldAlias)))
		case nodeDottedName:
			head, _, _ := strings.Cut(v.tree.Text(child), ".")
			v.bind(strings.TrimSpace(head))
		}
	}
}

func (v *visitor) visitImportFrom(stmt sitter.Node) {
	module := stmt.ChildByFieldName(fieldModuleName)

	for _, child := range pysyntax.NamedChildren(stmt) {
		if pysyntax.SameNode(child, module) {
			continue
		}

		switch child.Type() {
		case nodeAliasedImport:
			v.bind(v.tree.Text(child.ChildByFieldName(fieldAlias)))
		case nodeDottedName:
			v.bind(strings.TrimSpace(v.tree.Text(child)))
		case nodeWildcardImport:
			v.mod.StarImports = append(v.mod.StarImports, v.tree.Text(module))
		}
	}
}

func (v *visitor) visitDefinition(stmt sitter.Node) {
	def := stmt
	if stmt.Type() == nodeDecorated {
		def = stmt.ChildByFieldName(fieldDefinition)
	}

	v.bind(v.tree.Text(def.ChildByFieldName(fieldName)))
}

func (v *visitor) visitAssign(stmt sitter.Node, topLevel bool) {
	if stmt.Type() == nodeTypeAlias {
		if name, ok := firstName(stmt.ChildByFieldName(fieldLeft)); ok {
			v.bind(v.tree.Text(name))
		}

		return
	}

	for _, child := range pysyntax.NamedChildren(stmt) {
		switch child.Type() {
		case nodeAssignment:
			v.visitAssignment(stmt, child, topLevel, false)
		case nodeAugmented:
			if v.isExportVar(child.ChildByFieldName(fieldLeft)) {
				v.markOpaque(stmt, "extended with an augmented assignment")
			}
		}
	}
}

// visitAssignment handles one link of a possibly chained assignment.
func (v *visitor) visitAssignment(stmt, assign sitter.Node, topLevel, chained bool) {
	left := assign.ChildByFieldName(fieldLeft)
	right := assign.ChildByFieldName(fieldRight)

	if right.IsNull() {
		// Bare annotation: binds nothing.
		return
	}

	nested := right.Type() == nodeAssignment
	targetsExport := v.bindTargets(left)

	if targetsExport {
		switch {
		case !topLevel:
			v.markOpaque(stmt, "assigned inside a block")
		case chained || nested || !v.isExportVar(left):
			v.markOpaque(stmt, "assigned together with other targets")
		default:
			v.declare(stmt, right, assign.ChildByFieldName(fieldType))
		}
	}

	if nested {
		v.visitAssignment(stmt, right, topLevel, true)
	}
}

// bindTargets binds every name in an assignment target and reports whether
// the export variable itself is among them.
func (v *visitor) bindTargets(target sitter.Node) bool {
	if target.IsNull() {
		return false
	}

	if pysyntax.IsName(target) {
		name := v.tree.Text(target)
		v.bind(name)

		return name == ExportVar
	}

	if !targetPatterns[target.Type()] {
		return false
	}

	found := false

	for _, child := range pysyntax.NamedChildren(target) {
		if v.bindTargets(child) {
			found = true
		}
	}

	return found
}

func (v *visitor) isExportVar(n sitter.Node) bool {
	return !n.IsNull() && pysyntax.IsName(n) && v.tree.Text(n) == ExportVar
}

func (v *visitor) declare(stmt, value, annotation sitter.Node) {
	if v.mod.Declared.Present {
		v.markOpaque(stmt, "assigned more than once")

		return
	}

	declared := DeclaredList{
		Present: true,
		Span:    Span{Start: int(stmt.StartByte()), End: int(stmt.EndByte())}, //nolint:gosec // tree-sitter byte offsets fit in int
		Line:    int(stmt.StartPoint().Row) + 1,                              //nolint:gosec // tree-sitter coordinates fit in int
	}

	if !annotation.IsNull() {
		declared.Annotation = v.tree.Text(annotation)
	}

	values, reason := v.literalValues(value)
	if reason != "" {
		declared.Kind = Opaque
		declared.Reason = reason
	} else {
		declared.Kind = LiteralStrings
		declared.Values = values
	}

	v.collectComments(stmt, &declared)
	v.mod.Declared = declared
}

// collectComments records the comments on the lines of stmt, including one
// trailing its last line. A comment that follows a string element on the
// same line belongs to that element.
func (v *visitor) collectComments(stmt sitter.Node, declared *DeclaredList) {
	var found []sitter.Node

	walkComments(stmt, &found)

	trailing := stmt.NextNamedSibling()
	if !trailing.IsNull() && trailing.Type() == pysyntax.TypeComment && trailing.StartPoint().Row == stmt.EndPoint().Row {
		found = append(found, trailing)
		declared.Span.End = int(trailing.EndByte()) //nolint:gosec // tree-sitter byte offsets fit in int
	}

	for _, comment := range found {
		text := strings.TrimSpace(v.tree.Text(comment))

		name, ok := v.trailedElement(comment)
		if !ok || isDirective(text) {
			declared.Comments = append(declared.Comments, text)

			continue
		}

		if declared.ElementComments == nil {
			declared.ElementComments = make(map[string]string)
		}

		if prev, dup := declared.ElementComments[name]; dup {
			text = prev + "  " + text
		}

		declared.ElementComments[name] = text
	}
}

// trailedElement returns the string element a comment follows on the same line.
func (v *visitor) trailedElement(comment sitter.Node) (string, bool) {
	prev := comment.PrevNamedSibling()
	if prev.IsNull() || prev.Type() != pysyntax.TypeString || prev.EndPoint().Row != comment.StartPoint().Row {
		return "", false
	}

	value, _, ok := pysyntax.StringLiteral(v.tree.Text(prev))

	return value, ok
}

func walkComments(n sitter.Node, out *[]sitter.Node) {
	for idx := range n.ChildCount() {
		child := n.Child(idx)
		if child.Type() == pysyntax.TypeComment {
			*out = append(*out, child)

			continue
		}

		walkComments(child, out)
	}
}

// literalValues returns the strings of a list or tuple literal, or the reason
// the expression is not one.
func (v *visitor) literalValues(value sitter.Node) ([]string, string) {
	typ := value.Type()
	if typ != pysyntax.TypeList && typ != pysyntax.TypeTuple {
		return nil, fmt.Sprintf("value is a %s expression, not a literal list", strings.ReplaceAll(typ, "_", " "))
	}

	elements := pysyntax.NamedChildren(value)
	values := make([]string, 0, len(elements))

	for _, elem := range elements {
		if elem.Type() == nodeConcatenatedStr {
			return nil, "contains implicitly concatenated strings"
		}

		if elem.Type() != pysyntax.TypeString {
			return nil, fmt.Sprintf("element %q is not a string literal", v.tree.Text(elem))
		}

		text, _, ok := pysyntax.StringLiteral(v.tree.Text(elem))
		if !ok {
			return nil, fmt.Sprintf("element %s is not a plain string literal", v.tree.Text(elem))
		}

		values = append(values, text)
	}

	return values, ""
}

// markOpaque records that __all__ is built dynamically at stmt.
func (v *visitor) markOpaque(stmt sitter.Node, reason string) {
	declared := &v.mod.Declared
	if declared.Present && declared.Kind == Opaque {
		return
	}

	if !declared.Present {
		declared.Present = true
		declared.Span = Span{Start: int(stmt.StartByte()), End: int(stmt.EndByte())} //nolint:gosec // tree-sitter byte offsets fit in int
		declared.Line = int(stmt.StartPoint().Row) + 1                              //nolint:gosec // tree-sitter coordinates fit in int
		v.collectComments(stmt, declared)
	}

	declared.Kind = Opaque
	declared.Values = nil
	declared.ElementComments = nil
	declared.Reason = reason
}

// visitCompound binds the loop and context manager targets of a statement
// that keeps module scope, then descends into its blocks.
func (v *visitor) visitCompound(stmt sitter.Node) {
	switch stmt.Type() {
	case nodeForStatement:
		if v.bindTargets(stmt.ChildByFieldName(fieldLeft)) {
			v.markOpaque(stmt, "bound by a for loop")
		}
	case nodeWithStatement:
		if v.bindWithTargets(stmt) {
			v.markOpaque(stmt, "bound by a with statement")
		}
	}

	for _, child := range pysyntax.NamedChildren(stmt) {
		switch {
		case child.Type() == pysyntax.TypeBlock:
			for _, inner := range pysyntax.NamedChildren(child) {
				v.visit(inner, false)
			}
		case strings.HasSuffix(child.Type(), "_clause"):
			v.visitCompound(child)
		}
	}
}

// bindWithTargets binds the "as" targets of every context manager of stmt.
func (v *visitor) bindWithTargets(stmt sitter.Node) bool {
	found := false

	for _, clause := range pysyntax.NamedChildren(stmt) {
		if clause.Type() != nodeWithClause {
			continue
		}

		for _, item := range pysyntax.NamedChildren(clause) {
			value := item.ChildByFieldName(fieldValue)
			if value.IsNull() || value.Type() != nodeAsPattern {
				continue
			}

			alias := value.ChildByFieldName(fieldAlias)
			if alias.IsNull() {
				continue
			}

			if v.bindTargets(alias) {
				found = true
			}

			for _, target := range pysyntax.NamedChildren(alias) {
				if v.bindTargets(target) {
					found = true
				}
			}
		}
	}

	return found
}

// visitOther flags in-place mutation such as __all__.extend([...]).
func (v *visitor) visitOther(stmt sitter.Node) {
	if stmt.Type() != pysyntax.TypeExpressionStatement {
		return
	}

	for _, child := range pysyntax.NamedChildren(stmt) {
		if child.Type() != nodeCall {
			continue
		}

		fn := child.ChildByFieldName(fieldFunction)
		if fn.Type() != nodeAttribute {
			continue
		}

		if v.isExportVar(fn.ChildByFieldName(fieldObject)) {
			v.markOpaque(stmt, "modified by a method call")
		}
	}
}

func firstName(n sitter.Node) (sitter.Node, bool) {
	if n.IsNull() {
		return sitter.Node{}, false
	}

	if pysyntax.IsName(n) {
		return n, true
	}

	for idx := range n.NamedChildCount() {
		if found, ok := firstName(n.NamedChild(idx)); ok {
			return found, true
		}
	}

	return sitter.Node{}, false
}

// insertionPoint returns the offset just after the leading import block, or
// after the module docstring when there are no leading imports.
func insertionPoint(statements []sitter.Node, tree *pysyntax.Tree) int {
	src := tree.Source()
	insertAt := 0

	for idx, stmt := range statements {
		switch {
		case idx == 0 && isDocstring(stmt):
			insertAt = textutil.LineEnd(src, int(stmt.EndByte())) //nolint:gosec // tree-sitter byte offsets fit in int
		case isImportStatement(stmt):
			insertAt = textutil.LineEnd(src, int(stmt.EndByte())) //nolint:gosec // tree-sitter byte offsets fit in int
		default:
			return insertAt
		}
	}

	return insertAt
}

func isImportStatement(stmt sitter.Node) bool {
	switch stmt.Type() {
	case nodeImport, nodeImportFrom, nodeFutureImport:
		return true
	default:
		return false
	}
}

func isDocstring(stmt sitter.Node) bool {
	if stmt.Type() != pysyntax.TypeExpressionStatement {
		return false
	}

	children := pysyntax.NamedChildren(stmt)

	return len(children) == 1 && children[0].Type() == pysyntax.TypeString
}
