package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// NewPythonParser creates a parser for Python source files.
func NewPythonParser() *Parser {
	return newParser(pythonSpec())
}

func pythonSpec() languageSpec {
	return languageSpec{
		name:       "python",
		extensions: []string{".py", ".pyi"},
		grammar:    python.Language,

		classKinds:    map[string]bool{"class_definition": true},
		functionKinds: map[string]bool{"function_definition": true},
		wrapperKinds:  map[string]bool{"decorated_definition": true},

		bodyField:   "body",
		paramsField: "parameters",
		returnField: "return_type",

		receiverNames: map[string]bool{"self": true, "cls": true},

		docstringOf: pythonDocstring,
		moduleVar:   pythonModuleVar,
	}
}

// pythonDocstring returns the first string-literal statement of a block.
// Comments are never treated as documentation.
func pythonDocstring(body *sitter.Node, src []byte) string {
	if body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Kind() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	s := first.NamedChild(0)
	if s.Kind() != "string" && s.Kind() != "concatenated_string" {
		return ""
	}
	return stripStringQuotes(nodeText(s, src))
}

// pythonModuleVar matches a module-level `name = value` statement.
func pythonModuleVar(n *sitter.Node, src []byte) (string, int, bool) {
	if n.Kind() != "expression_statement" || n.NamedChildCount() == 0 {
		return "", 0, false
	}
	assign := n.NamedChild(0)
	if assign.Kind() != "assignment" {
		return "", 0, false
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" {
		return "", 0, false
	}
	return nodeText(left, src), startLine(assign), true
}

// stripStringQuotes removes string prefixes (r, b, f, u) and the surrounding
// quotes from a Python string literal, then trims whitespace.
func stripStringQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "rRbBuUfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return strings.TrimSpace(s[len(q) : len(s)-len(q)])
		}
	}
	return strings.TrimSpace(s)
}
