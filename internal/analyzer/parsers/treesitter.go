// Package parsers wraps tree-sitter grammars behind a uniform parse and
// symbol-extraction surface. Parsers never perform I/O: callers supply the
// source bytes and own the returned tree's lifetime.
package parsers

import (
	"fmt"
	"unsafe"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParseError reports malformed source. The parser never returns a partial
// tree: a file that does not fully parse yields a ParseError, because
// best-effort extraction from a broken tree produces misleading spans.
type ParseError struct {
	Path   string // set by the caller that knows the path
	Line   int    // 1-based, 0 if unknown
	Column int    // 1-based, 0 if unknown
	Msg    string
}

func (e *ParseError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Path, e.Msg)
	default:
		return e.Msg
	}
}

// Tree is a fully parsed source file. Callers must Close it when done;
// tree-sitter trees hold native memory that the GC does not reclaim.
type Tree struct {
	inner  *sitter.Tree
	source []byte
}

// Close releases the underlying tree-sitter tree. Safe to call twice.
func (t *Tree) Close() {
	if t.inner != nil {
		t.inner.Close()
		t.inner = nil
	}
}

func (t *Tree) root() *sitter.Node {
	return t.inner.RootNode()
}

// Parser parses and extracts symbols for one language.
type Parser struct {
	language *sitter.Language
	spec     languageSpec
}

func newParser(spec languageSpec) *Parser {
	return &Parser{
		language: sitter.NewLanguage(spec.grammar()),
		spec:     spec,
	}
}

// Language returns the canonical language name, e.g. "python".
func (p *Parser) Language() string {
	return p.spec.name
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return p.spec.extensions
}

// Parse parses source text into a tree. Syntactically invalid input yields a
// *ParseError with the location of the first broken node, never a partial
// tree. Parse performs no I/O.
func (p *Parser) Parse(source []byte) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(p.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, &ParseError{Msg: fmt.Sprintf("%s parser produced no tree", p.spec.name)}
	}

	root := tree.RootNode()
	if root.HasError() {
		perr := locateSyntaxError(root)
		tree.Close()
		return nil, perr
	}

	return &Tree{inner: tree, source: source}, nil
}

// locateSyntaxError finds the first ERROR or missing node under root and
// builds a ParseError pointing at it.
func locateSyntaxError(root *sitter.Node) *ParseError {
	var bad *sitter.Node
	walkTree(root, func(n *sitter.Node) bool {
		if bad != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			bad = n
			return false
		}
		return true
	})

	if bad == nil {
		// HasError was set but no concrete node found; report the root.
		return &ParseError{
			Line:   int(root.StartPosition().Row) + 1,
			Column: int(root.StartPosition().Column) + 1,
			Msg:    "source contains syntax errors",
		}
	}

	msg := "syntax error"
	if bad.IsMissing() {
		msg = fmt.Sprintf("syntax error: missing %q", bad.Kind())
	}
	return &ParseError{
		Line:   int(bad.StartPosition().Row) + 1,
		Column: int(bad.StartPosition().Column) + 1,
		Msg:    msg,
	}
}

// walkTree visits node and its children depth-first. The visitor returns
// false to stop descending into the current node.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// startLine returns the 1-based line a node begins on.
func startLine(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

// endLine returns the 1-based line a node ends on.
func endLine(node *sitter.Node) int {
	return int(node.EndPosition().Row) + 1
}

// grammarFunc is the shape of the Language() constructor every official
// tree-sitter grammar binding exports.
type grammarFunc func() unsafe.Pointer
