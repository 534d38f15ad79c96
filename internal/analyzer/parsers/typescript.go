package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// NewTypeScriptParser creates a parser for TypeScript and JavaScript files.
// Plain JavaScript parses cleanly under the TypeScript grammar, so both
// share it the same way the grammar's own bindings recommend.
func NewTypeScriptParser() *Parser {
	return newParser(typescriptSpec())
}

// NewTSXParser creates a parser for .tsx files, which need the TSX grammar
// variant for JSX syntax.
func NewTSXParser() *Parser {
	return newParser(tsxSpec())
}

func typescriptSpec() languageSpec {
	return languageSpec{
		name:       "typescript",
		extensions: []string{".ts", ".js", ".jsx", ".mjs", ".cjs"},
		grammar:    typescript.LanguageTypescript,

		classKinds: map[string]bool{
			"class_declaration":          true,
			"abstract_class_declaration": true,
			"interface_declaration":      true,
			"enum_declaration":           true,
		},
		functionKinds: map[string]bool{
			"function_declaration":           true,
			"generator_function_declaration": true,
			"method_definition":              true,
		},
		wrapperKinds: map[string]bool{"export_statement": true},
		ignoreKinds: map[string]bool{
			"import_declaration":        true,
			"type_alias_declaration":    true,
			"public_field_definition":   true,
			"property_signature":        true,
			"index_signature":           true,
			"method_signature":          true,
			"call_signature":            true,
			"abstract_method_signature": true,
		},

		bodyField:   "body",
		paramsField: "parameters",
		returnField: "return_type",

		moduleVar: typescriptModuleVar,
	}
}

func tsxSpec() languageSpec {
	spec := typescriptSpec()
	spec.name = "tsx"
	spec.extensions = []string{".tsx"}
	spec.grammar = typescript.LanguageTSX
	return spec
}

// typescriptModuleVar matches top-level `const x = ...`, `let x = ...`, and
// `var x = ...` declarations, naming the first declarator.
func typescriptModuleVar(n *sitter.Node, src []byte) (string, int, bool) {
	kind := n.Kind()
	if kind != "lexical_declaration" && kind != "variable_declaration" {
		return "", 0, false
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		d := n.NamedChild(uint(i))
		if d.Kind() != "variable_declarator" {
			continue
		}
		name := d.ChildByFieldName("name")
		if name != nil && name.Kind() == "identifier" {
			return nodeText(name, src), startLine(n), true
		}
	}
	return "", 0, false
}
