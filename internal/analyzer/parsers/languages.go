package parsers

import (
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// languageSpec is the table that drives extraction for one language: which
// node kinds declare classes, functions, and module variables, and where
// names, parameters, and return types live. Unset fields fall back to the
// defaults most grammars share (a "name" field, a "body" field, a
// "parameters" field).
type languageSpec struct {
	name       string
	extensions []string
	grammar    grammarFunc

	classKinds    map[string]bool
	functionKinds map[string]bool
	// wrapperKinds are transparent containers (decorators, export
	// statements) whose children are visited as if at the wrapper's level.
	wrapperKinds map[string]bool
	// ignoreKinds are declaration-like kinds that are expected and carry no
	// symbols (imports, package clauses); they never produce warnings.
	ignoreKinds map[string]bool

	bodyField   string // class body field, default "body"
	paramsField string // default "parameters"
	returnField string // empty when the language has no return annotations

	// receiverNames are implicit first parameters dropped from method
	// signatures ("self", "this").
	receiverNames map[string]bool

	// classNameOf overrides class name lookup when it is not a "name" field.
	classNameOf func(n *sitter.Node, src []byte) string
	// funcNameOf overrides function name lookup when it is not a "name"
	// field (C buries it inside the declarator).
	funcNameOf func(n *sitter.Node, src []byte) string
	// docstringOf extracts a leading documentation string from a class or
	// function body. Nil for languages without docstring conventions;
	// comments are never used.
	docstringOf func(body *sitter.Node, src []byte) string
	// moduleVar extracts a module-level variable name from a top-level
	// statement node, reporting ok=false when the node declares none.
	moduleVar func(n *sitter.Node, src []byte) (name string, line int, ok bool)
}

// Registry routes file paths to language parsers by extension.
type Registry struct {
	byExt map[string]*Parser
	all   []*Parser
}

// NewRegistry builds a registry covering every bundled grammar.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]*Parser)}
	for _, spec := range []languageSpec{
		pythonSpec(),
		typescriptSpec(),
		tsxSpec(),
		rubySpec(),
		javaSpec(),
		rustSpec(),
		cSpec(),
		phpSpec(),
	} {
		r.register(newParser(spec))
	}
	return r
}

func (r *Registry) register(p *Parser) {
	r.all = append(r.all, p)
	for _, ext := range p.Extensions() {
		r.byExt[ext] = p
	}
}

// ForPath returns the parser responsible for a file path, or false when the
// extension maps to no bundled grammar.
func (r *Registry) ForPath(path string) (*Parser, bool) {
	p, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return p, ok
}

// Supported reports whether the registry has a parser for the path.
func (r *Registry) Supported(path string) bool {
	_, ok := r.ForPath(path)
	return ok
}

// Extensions returns every registered file extension, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Languages returns the canonical names of all registered languages, sorted.
func (r *Registry) Languages() []string {
	seen := make(map[string]bool, len(r.all))
	langs := make([]string, 0, len(r.all))
	for _, p := range r.all {
		if !seen[p.Language()] {
			seen[p.Language()] = true
			langs = append(langs, p.Language())
		}
	}
	sort.Strings(langs)
	return langs
}
