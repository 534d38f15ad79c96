package analyzer

import (
	"context"
	"errors"
	"sort"

	"github.com/mvp-joe/codescope/internal/analyzer/extraction"
)

// FileFailure records one file whose analysis failed during a batch build.
type FileFailure struct {
	Path string
	Err  error
}

// ProjectIndex is a derived name-to-symbols view over the file cache. It
// owns no symbols and is safe to discard and rebuild at any time; queries
// spanning more than one file rebuild it, which fingerprint hits keep cheap.
type ProjectIndex struct {
	byName map[string][]extraction.Symbol

	// Failed lists files that could not be analyzed (parse or read
	// failures). A failure never aborts the build for other files.
	Failed []FileFailure

	// Warnings aggregates extraction warnings across all indexed files.
	Warnings []extraction.Warning
}

// BuildIndex analyzes every path in fileList through the cache and folds the
// results into a name-keyed mapping. Paths are visited in lexical order, so
// lookups return symbols ordered by (file path, line). Unsupported file
// types are skipped silently; failed files are recorded and skipped.
func (c *FileCache) BuildIndex(ctx context.Context, fileList []string) (*ProjectIndex, error) {
	paths := append([]string(nil), fileList...)
	sort.Strings(paths)

	ix := &ProjectIndex{byName: make(map[string][]extraction.Symbol)}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, err := c.GetOrParse(ctx, path)
		if err != nil {
			if errors.Is(err, ErrUnsupportedLanguage) {
				continue
			}
			ix.Failed = append(ix.Failed, FileFailure{Path: path, Err: err})
			continue
		}

		ix.Warnings = append(ix.Warnings, entry.Warnings...)
		for _, s := range entry.Symbols {
			ix.byName[s.Name] = append(ix.byName[s.Name], s)
		}
	}

	return ix, nil
}

// Lookup returns every symbol with the given name, ordered by file path and
// ascending line. An unknown name yields an empty slice.
func (ix *ProjectIndex) Lookup(name string) []extraction.Symbol {
	return ix.byName[name]
}

// Names returns every indexed symbol name, sorted.
func (ix *ProjectIndex) Names() []string {
	names := make([]string, 0, len(ix.byName))
	for name := range ix.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Size returns the number of distinct names in the index.
func (ix *ProjectIndex) Size() int {
	return len(ix.byName)
}
