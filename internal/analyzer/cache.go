// Package analyzer implements the code symbol analysis engine: a
// fingerprint-keyed per-file symbol cache, a derived project-wide symbol
// index, a reference finder, and the query surface that ties them together.
package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/codescope/internal/analyzer/extraction"
	"github.com/mvp-joe/codescope/internal/analyzer/parsers"
)

// Provider supplies source text. The engine never opens files directly;
// workspace bounding and I/O policy belong to the caller.
type Provider interface {
	Read(path string) ([]byte, error)
}

// DefaultCacheCapacity bounds the number of cached file entries.
const DefaultCacheCapacity = 16_384

// FileEntry is one file's analysis snapshot. Entries are immutable: a
// fingerprint change replaces the entry wholesale, never mutates it.
//
// The tree-sitter tree itself is not retained. Trees hold native memory
// needing explicit Close, and every downstream consumer (index, reference
// finder) works on the extracted symbols and the source lines.
type FileEntry struct {
	Path        string
	Fingerprint string
	Language    string
	Symbols     []extraction.Symbol
	Warnings    []extraction.Warning
	Lines       []string
	ExtractedAt time.Time
}

// FileCache caches parse results per file, keyed by path and validated by a
// content fingerprint. Modification times are never trusted: they are not
// monotonic across filesystems, so a hit requires the stored hash to match
// the bytes the provider returns now.
type FileCache struct {
	provider Provider
	registry *parsers.Registry
	entries  otter.Cache[string, *FileEntry]
}

// NewFileCache creates a cache reading source text through provider.
// capacity bounds the entry count; zero or negative selects
// DefaultCacheCapacity.
func NewFileCache(provider Provider, registry *parsers.Registry, capacity int) (*FileCache, error) {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	entries, err := otter.MustBuilder[string, *FileEntry](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build file entry cache: %w", err)
	}
	return &FileCache{
		provider: provider,
		registry: registry,
		entries:  entries,
	}, nil
}

// GetOrParse returns the cached entry for path when its fingerprint still
// matches the current content, and otherwise parses, extracts, and stores a
// fresh entry. Parser and extractor never run on a fingerprint hit.
func (c *FileCache) GetOrParse(ctx context.Context, path string) (*FileEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser, ok := c.registry.ForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
	}

	source, err := c.provider.Read(path)
	if err != nil {
		// I/O failures propagate unchanged; the engine does not retry.
		return nil, err
	}

	fp := fingerprint(source)
	if entry, ok := c.entries.Get(path); ok && entry.Fingerprint == fp {
		return entry, nil
	}

	tree, err := parser.Parse(source)
	if err != nil {
		var perr *parsers.ParseError
		if errors.As(err, &perr) && perr.Path == "" {
			perr.Path = path
		}
		// A stale entry for the old content must not satisfy later queries.
		c.entries.Delete(path)
		return nil, err
	}
	defer tree.Close()

	result := parser.Extract(tree, path)

	entry := &FileEntry{
		Path:        path,
		Fingerprint: fp,
		Language:    result.Language,
		Symbols:     result.Symbols,
		Warnings:    result.Warnings,
		Lines:       strings.Split(string(source), "\n"),
		ExtractedAt: time.Now(),
	}
	c.entries.Set(path, entry)
	return entry, nil
}

// Invalidate drops the entry for path so the next query re-parses. Callers
// invoke this after writing or editing a file; the cache does not watch the
// filesystem itself.
func (c *FileCache) Invalidate(path string) {
	c.entries.Delete(path)
}

// Clear drops every entry.
func (c *FileCache) Clear() {
	c.entries.Clear()
}

// Close releases the cache's resources.
func (c *FileCache) Close() {
	c.entries.Close()
}

// Len returns the number of cached entries.
func (c *FileCache) Len() int {
	return c.entries.Size()
}

// fingerprint returns the content hash used to detect file changes.
func fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
