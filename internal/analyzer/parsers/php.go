package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

// NewPhpParser creates a parser for PHP source files.
func NewPhpParser() *Parser {
	return newParser(phpSpec())
}

func phpSpec() languageSpec {
	return languageSpec{
		name:       "php",
		extensions: []string{".php"},
		grammar:    php.LanguagePHP,

		classKinds: map[string]bool{
			"class_declaration":     true,
			"interface_declaration": true,
			"trait_declaration":     true,
			"enum_declaration":      true,
		},
		functionKinds: map[string]bool{
			"function_definition": true,
			"method_declaration":  true,
		},
		wrapperKinds: map[string]bool{
			"namespace_definition": true,
			"compound_statement":   true,
		},
		ignoreKinds: map[string]bool{
			"namespace_use_declaration": true,
			"property_declaration":      true,
			"const_declaration":         true,
		},

		bodyField:   "body",
		paramsField: "parameters",
		returnField: "return_type",

		receiverNames: map[string]bool{"$this": true},

		moduleVar: phpModuleVar,
	}
}

// phpModuleVar matches a top-level `$name = value;` statement.
func phpModuleVar(n *sitter.Node, src []byte) (string, int, bool) {
	if n.Kind() != "expression_statement" || n.NamedChildCount() == 0 {
		return "", 0, false
	}
	assign := n.NamedChild(0)
	if assign.Kind() != "assignment_expression" {
		return "", 0, false
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "variable_name" {
		return "", 0, false
	}
	return strings.TrimPrefix(nodeText(left, src), "$"), startLine(n), true
}
