package parsers

import (
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// NewJavaParser creates a parser for Java source files.
func NewJavaParser() *Parser {
	return newParser(javaSpec())
}

func javaSpec() languageSpec {
	return languageSpec{
		name:       "java",
		extensions: []string{".java"},
		grammar:    java.Language,

		classKinds: map[string]bool{
			"class_declaration":     true,
			"interface_declaration": true,
			"enum_declaration":      true,
			"record_declaration":    true,
		},
		// Java has no free functions; these kinds only occur in class
		// bodies and always extract as methods.
		functionKinds: map[string]bool{
			"method_declaration":      true,
			"constructor_declaration": true,
		},
		ignoreKinds: map[string]bool{
			"import_declaration":  true,
			"package_declaration": true,
			"module_declaration":  true,
			"field_declaration":   true,
		},

		bodyField:   "body",
		paramsField: "parameters",
		returnField: "type",
	}
}
