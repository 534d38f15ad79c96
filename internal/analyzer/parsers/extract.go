package parsers

import (
	"fmt"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/codescope/internal/analyzer/extraction"
)

// Extract walks a parsed tree once, depth-first in source order, and returns
// every symbol the language table recognizes. Unrecognized declaration-like
// constructs are skipped with a warning, never an error: extraction always
// completes on a tree that parsed.
//
// Nesting rules: a class's methods come from its direct body only, so
// methods of a nested class attach to the nearest enclosing class. Function
// bodies are not descended into. A method whose enclosing class has no name
// is kept with an empty Parent and reported as orphaned.
func (p *Parser) Extract(tree *Tree, filePath string) *extraction.FileSymbols {
	res := &extraction.FileSymbols{
		FilePath: filePath,
		Language: p.spec.name,
		Symbols:  []extraction.Symbol{},
	}

	p.visitChildren(tree.root(), tree.source, filePath, visitState{}, res)

	// The walk already emits in source order; the stable sort only guards
	// against grammars that interleave sibling spans.
	sort.SliceStable(res.Symbols, func(i, j int) bool {
		return res.Symbols[i].LineStart < res.Symbols[j].LineStart
	})

	return res
}

// visitState tracks where the walk is relative to class bodies.
type visitState struct {
	enclosingClass string
	inClassBody    bool
}

func (p *Parser) visitChildren(node *sitter.Node, src []byte, path string, st visitState, res *extraction.FileSymbols) {
	if node == nil {
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		p.visit(node.NamedChild(uint(i)), src, path, st, res)
	}
}

func (p *Parser) visit(n *sitter.Node, src []byte, path string, st visitState, res *extraction.FileSymbols) {
	kind := n.Kind()

	switch {
	case p.spec.wrapperKinds[kind]:
		p.visitChildren(n, src, path, st, res)

	case p.spec.classKinds[kind]:
		p.extractClass(n, src, path, st, res)

	case p.spec.functionKinds[kind]:
		p.extractFunction(n, src, path, st, res)

	default:
		if !st.inClassBody && p.spec.moduleVar != nil {
			if name, line, ok := p.spec.moduleVar(n, src); ok {
				res.Symbols = append(res.Symbols, extraction.Symbol{
					Name:      name,
					Kind:      extraction.KindVariable,
					FilePath:  path,
					LineStart: line,
					LineEnd:   endLine(n),
				})
				return
			}
		}
		if p.unrecognizedDeclaration(kind) {
			warn(res, path, startLine(n), fmt.Sprintf("unsupported construct %q skipped", kind))
		}
	}
}

func (p *Parser) extractClass(n *sitter.Node, src []byte, path string, st visitState, res *extraction.FileSymbols) {
	name := p.classNameOf(n, src)
	if name == "" {
		warn(res, path, startLine(n), "class with no name skipped; its methods are orphaned")
	}

	body := p.classBodyOf(n)

	if name != "" {
		res.Symbols = append(res.Symbols, extraction.Symbol{
			Name:      name,
			Kind:      extraction.KindClass,
			FilePath:  path,
			LineStart: startLine(n),
			LineEnd:   endLine(n),
			Docstring: p.docstringOf(body, src),
		})
	}

	inner := visitState{enclosingClass: name, inClassBody: true}
	if body != nil {
		p.visitChildren(body, src, path, inner, res)
	} else {
		p.visitChildren(n, src, path, inner, res)
	}
}

func (p *Parser) extractFunction(n *sitter.Node, src []byte, path string, st visitState, res *extraction.FileSymbols) {
	name := p.funcNameOf(n, src)
	if name == "" {
		warn(res, path, startLine(n), fmt.Sprintf("unnamed %q skipped", n.Kind()))
		return
	}

	kind := extraction.KindFunction
	parent := ""
	if st.inClassBody {
		kind = extraction.KindMethod
		parent = st.enclosingClass
		if parent == "" {
			warn(res, path, startLine(n), fmt.Sprintf("method %q has no named enclosing class", name))
		}
	}

	res.Symbols = append(res.Symbols, extraction.Symbol{
		Name:       name,
		Kind:       kind,
		FilePath:   path,
		LineStart:  startLine(n),
		LineEnd:    endLine(n),
		Parent:     parent,
		Docstring:  p.docstringOf(n.ChildByFieldName("body"), src),
		Parameters: p.extractParams(n, src, kind == extraction.KindMethod),
		ReturnType: p.returnTypeOf(n, src),
	})
}

func (p *Parser) classNameOf(n *sitter.Node, src []byte) string {
	if p.spec.classNameOf != nil {
		return p.spec.classNameOf(n, src)
	}
	return nodeText(n.ChildByFieldName("name"), src)
}

func (p *Parser) funcNameOf(n *sitter.Node, src []byte) string {
	if p.spec.funcNameOf != nil {
		return p.spec.funcNameOf(n, src)
	}
	return nodeText(n.ChildByFieldName("name"), src)
}

func (p *Parser) classBodyOf(n *sitter.Node) *sitter.Node {
	field := p.spec.bodyField
	if field == "" {
		return nil
	}
	return n.ChildByFieldName(field)
}

func (p *Parser) docstringOf(body *sitter.Node, src []byte) string {
	if p.spec.docstringOf == nil || body == nil {
		return ""
	}
	return p.spec.docstringOf(body, src)
}

// extractParams returns the ordered parameter names of a function node.
// Implicit receivers (self, cls, this) are dropped from methods the way the
// surrounding languages' own tooling reports signatures.
func (p *Parser) extractParams(fn *sitter.Node, src []byte, isMethod bool) []string {
	field := p.spec.paramsField
	if field == "" {
		field = "parameters"
	}

	params := fn.ChildByFieldName(field)
	if params == nil {
		params = findDeclaratorParams(fn)
	}
	if params == nil {
		return nil
	}

	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		c := params.NamedChild(uint(i))
		if c.Kind() == "self_parameter" || c.Kind() == "comment" {
			continue
		}
		name := paramNameOf(c, src)
		if name == "" {
			continue
		}
		if isMethod && p.spec.receiverNames[name] {
			continue
		}
		names = append(names, name)
	}
	return names
}

// findDeclaratorParams locates a parameter list buried in a C-style
// declarator chain (function_definition → function_declarator → parameters).
func findDeclaratorParams(fn *sitter.Node) *sitter.Node {
	var params *sitter.Node
	walkTree(fn.ChildByFieldName("declarator"), func(n *sitter.Node) bool {
		if params != nil {
			return false
		}
		if n.Kind() == "function_declarator" {
			params = n.ChildByFieldName("parameters")
			return false
		}
		return true
	})
	return params
}

// paramNameOf digs the identifier out of a parameter node, which may be a
// bare identifier, a typed or defaulted parameter with a name field, or a
// pattern the identifier nests inside.
func paramNameOf(n *sitter.Node, src []byte) string {
	if identLike(n.Kind()) {
		return nodeText(n, src)
	}
	if nn := n.ChildByFieldName("name"); nn != nil {
		return paramNameOf(nn, src)
	}
	if pn := n.ChildByFieldName("pattern"); pn != nil {
		return paramNameOf(pn, src)
	}

	var found string
	walkTree(n, func(d *sitter.Node) bool {
		if found != "" {
			return false
		}
		if identLike(d.Kind()) {
			found = nodeText(d, src)
			return false
		}
		return true
	})
	return found
}

func identLike(kind string) bool {
	switch kind {
	case "identifier", "variable_name", "property_identifier", "field_identifier", "constant", "simple_identifier":
		return true
	}
	return false
}

func (p *Parser) returnTypeOf(fn *sitter.Node, src []byte) string {
	if p.spec.returnField == "" {
		return ""
	}
	rt := fn.ChildByFieldName(p.spec.returnField)
	if rt == nil {
		return ""
	}
	text := strings.TrimSpace(nodeText(rt, src))
	text = strings.TrimPrefix(text, "->")
	text = strings.TrimPrefix(text, ":")
	return strings.TrimSpace(text)
}

func (p *Parser) unrecognizedDeclaration(kind string) bool {
	if p.spec.ignoreKinds[kind] {
		return false
	}
	for _, suffix := range []string{"_definition", "_declaration", "_item", "_specifier"} {
		if strings.HasSuffix(kind, suffix) {
			return true
		}
	}
	return false
}

func warn(res *extraction.FileSymbols, path string, line int, msg string) {
	res.Warnings = append(res.Warnings, extraction.Warning{
		FilePath: path,
		Line:     line,
		Message:  msg,
	})
}
