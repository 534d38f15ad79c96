package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
)

// NewRubyParser creates a parser for Ruby source files.
func NewRubyParser() *Parser {
	return newParser(rubySpec())
}

func rubySpec() languageSpec {
	return languageSpec{
		name:       "ruby",
		extensions: []string{".rb", ".rake"},
		grammar:    ruby.Language,

		// Ruby modules group methods the way classes do, so they index as
		// classes: their methods get the module name as parent.
		classKinds: map[string]bool{"class": true, "module": true},
		functionKinds: map[string]bool{
			"method":           true,
			"singleton_method": true,
		},
		// Class and method bodies live in a body_statement child rather
		// than a named field.
		wrapperKinds: map[string]bool{"body_statement": true},

		paramsField: "parameters",

		moduleVar: rubyModuleVar,
	}
}

// rubyModuleVar matches a top-level `name = value` assignment.
func rubyModuleVar(n *sitter.Node, src []byte) (string, int, bool) {
	if n.Kind() != "assignment" {
		return "", 0, false
	}
	left := n.ChildByFieldName("left")
	if left == nil || (left.Kind() != "identifier" && left.Kind() != "constant") {
		return "", 0, false
	}
	return nodeText(left, src), startLine(n), true
}
