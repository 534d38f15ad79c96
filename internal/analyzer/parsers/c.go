package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
)

// NewCParser creates a parser for C source files.
func NewCParser() *Parser {
	return newParser(cSpec())
}

func cSpec() languageSpec {
	return languageSpec{
		name:       "c",
		extensions: []string{".c", ".h"},
		grammar:    c.Language,

		classKinds:    map[string]bool{"struct_specifier": true, "union_specifier": true, "enum_specifier": true},
		functionKinds: map[string]bool{"function_definition": true},
		wrapperKinds:  map[string]bool{"type_definition": true},
		ignoreKinds: map[string]bool{
			"preproc_function_def": true,
		},

		bodyField:   "body",
		returnField: "type",

		funcNameOf: cFunctionName,
		moduleVar:  cModuleVar,
	}
}

// cFunctionName unwraps the declarator chain (pointer declarators, function
// declarators) down to the declared identifier.
func cFunctionName(n *sitter.Node, src []byte) string {
	d := n.ChildByFieldName("declarator")
	for d != nil && d.Kind() != "identifier" {
		d = d.ChildByFieldName("declarator")
	}
	return nodeText(d, src)
}

// cModuleVar matches a top-level declaration with an initialized or plain
// declarator, e.g. `static int max_retries = 3;`.
func cModuleVar(n *sitter.Node, src []byte) (string, int, bool) {
	if n.Kind() != "declaration" {
		return "", 0, false
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		d := n.NamedChild(uint(i))
		if d.Kind() == "init_declarator" {
			d = d.ChildByFieldName("declarator")
		}
		for d != nil && d.Kind() != "identifier" && d.ChildByFieldName("declarator") != nil {
			// A function declarator makes this a prototype, not a variable.
			if d.Kind() == "function_declarator" {
				d = nil
				break
			}
			d = d.ChildByFieldName("declarator")
		}
		if d != nil && d.Kind() == "identifier" {
			return nodeText(d, src), startLine(n), true
		}
	}
	return "", 0, false
}
