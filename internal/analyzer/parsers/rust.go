package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// NewRustParser creates a parser for Rust source files.
func NewRustParser() *Parser {
	return newParser(rustSpec())
}

func rustSpec() languageSpec {
	return languageSpec{
		name:       "rust",
		extensions: []string{".rs"},
		grammar:    rust.Language,

		// Structs, enums, and traits index as classes; impl blocks reuse the
		// implemented type's name so their functions attach as methods of it.
		classKinds: map[string]bool{
			"struct_item": true,
			"enum_item":   true,
			"trait_item":  true,
			"union_item":  true,
			"impl_item":   true,
		},
		functionKinds: map[string]bool{"function_item": true},
		wrapperKinds: map[string]bool{
			"mod_item":         true,
			"declaration_list": true,
		},
		ignoreKinds: map[string]bool{
			"use_declaration":   true,
			"extern_crate_item": true,
			"type_item":         true,
			"macro_definition":  true,
		},

		bodyField:   "body",
		paramsField: "parameters",
		returnField: "return_type",

		classNameOf: rustTypeName,
		moduleVar:   rustModuleVar,
	}
}

// rustTypeName names a type-bearing item: named items use the name field,
// impl blocks the type they implement.
func rustTypeName(n *sitter.Node, src []byte) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return nodeText(name, src)
	}
	if typ := n.ChildByFieldName("type"); typ != nil {
		return nodeText(typ, src)
	}
	return ""
}

// rustModuleVar matches top-level const and static items.
func rustModuleVar(n *sitter.Node, src []byte) (string, int, bool) {
	kind := n.Kind()
	if kind != "const_item" && kind != "static_item" {
		return "", 0, false
	}
	name := n.ChildByFieldName("name")
	if name == nil {
		return "", 0, false
	}
	return nodeText(name, src), startLine(n), true
}
