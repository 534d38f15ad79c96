package files

import (
	"fmt"
	"regexp"
	"strings"
)

// Match is one regex hit in a workspace file.
type Match struct {
	FilePath string `json:"file_path"`
	Line     int    `json:"line"`
	Context  string `json:"context"`
}

// Searcher runs regex text searches over discovered workspace files. This is
// lexical search, distinct from the engine's symbol-aware reference finding.
type Searcher struct {
	provider  *WorkspaceProvider
	discovery *Discovery
}

// NewSearcher creates a searcher over the discovered file set.
func NewSearcher(provider *WorkspaceProvider, discovery *Discovery) *Searcher {
	return &Searcher{provider: provider, discovery: discovery}
}

// Search returns every line matching pattern, optionally restricted to one
// file extension (with or without the leading dot). Unreadable files are
// skipped.
func (s *Searcher) Search(pattern, extension string) ([]Match, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern: %w", err)
	}

	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}

	paths, err := s.discovery.ListFiles()
	if err != nil {
		return nil, err
	}

	matches := []Match{}
	for _, path := range paths {
		if extension != "" && !strings.HasSuffix(path, extension) {
			continue
		}
		content, err := s.provider.Read(path)
		if err != nil {
			continue
		}
		for i, line := range strings.Split(string(content), "\n") {
			if re.MatchString(line) {
				matches = append(matches, Match{
					FilePath: path,
					Line:     i + 1,
					Context:  strings.TrimSpace(line),
				})
			}
		}
	}
	return matches, nil
}
