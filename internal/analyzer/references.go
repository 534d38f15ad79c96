package analyzer

import (
	"fmt"
	"regexp"
	"strings"
)

// Reference is one syntactic occurrence of a symbol name.
type Reference struct {
	FilePath string `json:"file_path"`
	Line     int    `json:"line"`   // 1-based
	Column   int    `json:"column"` // 1-based
	// IsDefinition marks the name token of a definition: the first
	// occurrence on a line where a symbol with this name is defined in the
	// same file. Later occurrences on that line (a parameter shadowing the
	// function name, a self-referential initializer) are usages.
	IsDefinition bool   `json:"is_definition"`
	Context      string `json:"context"` // the trimmed source line
}

// identifierPattern compiles an exact word-boundary matcher for name.
// Substring hits inside longer identifiers never match.
func identifierPattern(name string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile identifier pattern for %q: %w", name, err)
	}
	return re, nil
}

// findFileReferences scans one cached file's source lines for occurrences of
// name, in ascending line then column order.
func findFileReferences(entry *FileEntry, re *regexp.Regexp, name string) []Reference {
	defLines := make(map[int]bool)
	for _, s := range entry.Symbols {
		if s.Name == name {
			defLines[s.LineStart] = true
		}
	}

	var refs []Reference
	for i, line := range entry.Lines {
		defPending := defLines[i+1]
		for _, loc := range re.FindAllStringIndex(line, -1) {
			refs = append(refs, Reference{
				FilePath:     entry.Path,
				Line:         i + 1,
				Column:       loc[0] + 1,
				IsDefinition: defPending,
				Context:      strings.TrimSpace(line),
			})
			defPending = false
		}
	}
	return refs
}
