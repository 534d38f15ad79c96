package analyzer

import "errors"

// Sentinel errors for expected query outcomes. Absence of a path or symbol
// is a representable result, not an exceptional condition; callers match
// with errors.Is.
var (
	// ErrNotFound reports an absent path or symbol.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedLanguage reports a path whose extension maps to no
	// registered grammar.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrEmptyName reports a query with an empty symbol name.
	ErrEmptyName = errors.New("symbol name must not be empty")
)
