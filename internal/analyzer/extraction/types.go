// Package extraction defines the symbol records produced by a single parse
// pass over one source file. Records are immutable snapshots: re-analyzing a
// file replaces the whole set rather than mutating it.
package extraction

// SymbolKind classifies a discovered code entity.
type SymbolKind string

const (
	KindClass    SymbolKind = "class"
	KindFunction SymbolKind = "function"
	KindMethod   SymbolKind = "method"
	KindVariable SymbolKind = "variable"
)

// Symbol is a discovered code entity with its location and metadata.
//
// Parent is a name reference, not a pointer: method symbols name their
// enclosing class, and the class symbol is guaranteed to come from the same
// extraction pass. A name survives re-extraction replacing the symbol set,
// which an object reference would not.
type Symbol struct {
	Name       string     `json:"name"`
	Kind       SymbolKind `json:"kind"`
	FilePath   string     `json:"file_path"`
	LineStart  int        `json:"line_start"`           // 1-based, inclusive
	LineEnd    int        `json:"line_end"`             // 1-based, inclusive
	Parent     string     `json:"parent,omitempty"`     // enclosing class name, methods only
	Docstring  string     `json:"docstring,omitempty"`
	Parameters []string   `json:"parameters,omitempty"` // ordered, functions/methods only
	ReturnType string     `json:"return_type,omitempty"`
}

// Warning records a non-fatal extraction problem, such as an unsupported
// construct that was skipped or a method whose enclosing class has no name.
type Warning struct {
	FilePath string `json:"file_path"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

// FileSymbols is the complete result of extracting one parsed file.
type FileSymbols struct {
	FilePath string    `json:"file_path"`
	Language string    `json:"language"`
	Symbols  []Symbol  `json:"symbols"`
	Warnings []Warning `json:"warnings,omitempty"`
}
