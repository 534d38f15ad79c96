package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/mvp-joe/codescope/internal/analyzer/extraction"
	"github.com/mvp-joe/codescope/internal/analyzer/parsers"
)

// Lister enumerates the analyzable files a project-wide query spans.
type Lister interface {
	ListFiles() ([]string, error)
}

// Engine is the query surface of the analysis engine. It owns the file
// cache explicitly (no ambient global state) and reads everything through
// the injected provider and lister.
//
// Queries are deterministic and idempotent: repeated identical queries over
// an unchanged file set return identical results. Cache entries are
// immutable and the entry store serializes mutation, so concurrent callers
// see whole entries or nothing.
type Engine struct {
	cache    *FileCache
	lister   Lister
	registry *parsers.Registry
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	cacheCapacity int
}

// WithCacheCapacity bounds the number of cached file entries.
func WithCacheCapacity(n int) Option {
	return func(o *engineOptions) {
		o.cacheCapacity = n
	}
}

// NewEngine creates an engine reading source text through provider and
// enumerating project files through lister.
func NewEngine(provider Provider, lister Lister, opts ...Option) (*Engine, error) {
	if provider == nil {
		return nil, fmt.Errorf("source text provider is required")
	}
	if lister == nil {
		return nil, fmt.Errorf("file lister is required")
	}

	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}

	registry := parsers.NewRegistry()
	cache, err := NewFileCache(provider, registry, o.cacheCapacity)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cache:    cache,
		lister:   lister,
		registry: registry,
	}, nil
}

// FileResult is the structured outcome of analyzing one file.
type FileResult struct {
	Path        string               `json:"path"`
	Language    string               `json:"language"`
	Symbols     []extraction.Symbol  `json:"symbols"`
	Warnings    []extraction.Warning `json:"warnings,omitempty"`
	ExtractedAt time.Time            `json:"extracted_at"`
}

// ReferencesResult holds a reference query's occurrences plus the files that
// could not be scanned. Partial results with failures is expected behavior,
// not an error.
type ReferencesResult struct {
	References []Reference   `json:"references"`
	Failed     []FileFailure `json:"-"`
}

// SymbolsResult holds a definition query's matches plus the files the index
// build could not parse, so callers can tell "absent" from "absent, but some
// files were unreadable".
type SymbolsResult struct {
	Symbols []extraction.Symbol `json:"symbols"`
	Failed  []FileFailure       `json:"-"`
}

// QueryOption scopes a symbol or reference query.
type QueryOption func(*queryOptions)

type queryOptions struct {
	path string
}

// WithPath restricts a query to a single file instead of the whole project.
func WithPath(path string) QueryOption {
	return func(o *queryOptions) {
		o.path = path
	}
}

// AnalyzeStructure returns the symbol list for one file, served from the
// cache when the content fingerprint is unchanged. An absent path maps to
// ErrNotFound; malformed source yields a *parsers.ParseError.
func (e *Engine) AnalyzeStructure(ctx context.Context, path string) (*FileResult, error) {
	entry, err := e.cache.GetOrParse(ctx, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	return &FileResult{
		Path:        entry.Path,
		Language:    entry.Language,
		Symbols:     entry.Symbols,
		Warnings:    entry.Warnings,
		ExtractedAt: entry.ExtractedAt,
	}, nil
}

// FindSymbol returns the winning definition for name: when a name is defined
// more than once, the most recent in source order wins. Absence is an
// expected outcome, reported as ErrNotFound.
func (e *Engine) FindSymbol(ctx context.Context, name string, opts ...QueryOption) (extraction.Symbol, error) {
	result, err := e.FindSymbols(ctx, name, opts...)
	if err != nil {
		return extraction.Symbol{}, err
	}
	if len(result.Symbols) == 0 {
		return extraction.Symbol{}, fmt.Errorf("%w: symbol %q", ErrNotFound, name)
	}
	return result.Symbols[len(result.Symbols)-1], nil
}

// FindSymbols returns every definition of name ordered by (file path, line),
// plus any per-file parse failures hit while building the index. An empty
// result is success.
func (e *Engine) FindSymbols(ctx context.Context, name string, opts ...QueryOption) (*SymbolsResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}

	files, err := e.queryFiles(opts)
	if err != nil {
		return nil, err
	}

	ix, err := e.cache.BuildIndex(ctx, files)
	if err != nil {
		return nil, err
	}
	return &SymbolsResult{Symbols: ix.Lookup(name), Failed: ix.Failed}, nil
}

// FindReferences scans the project's source text for exact-identifier
// occurrences of name and classifies each as definition or usage. Results
// are ordered by file path, then line, then column. Zero occurrences yield
// an empty result, not an error.
func (e *Engine) FindReferences(ctx context.Context, name string, opts ...QueryOption) (*ReferencesResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}

	re, err := identifierPattern(name)
	if err != nil {
		return nil, err
	}

	files, err := e.queryFiles(opts)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	result := &ReferencesResult{References: []Reference{}}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, err := e.cache.GetOrParse(ctx, path)
		if err != nil {
			if errors.Is(err, ErrUnsupportedLanguage) {
				continue
			}
			result.Failed = append(result.Failed, FileFailure{Path: path, Err: err})
			continue
		}

		result.References = append(result.References, findFileReferences(entry, re, name)...)
	}
	return result, nil
}

// BuildIndex rebuilds the project symbol index across the listed files.
func (e *Engine) BuildIndex(ctx context.Context) (*ProjectIndex, error) {
	files, err := e.lister.ListFiles()
	if err != nil {
		return nil, err
	}
	return e.cache.BuildIndex(ctx, files)
}

// Invalidate drops one file's cache entry. Collaborators call this after a
// write or edit so the next query reflects the new content.
func (e *Engine) Invalidate(path string) {
	e.cache.Invalidate(path)
}

// Clear drops the whole cache.
func (e *Engine) Clear() {
	e.cache.Clear()
}

// Close releases the engine's resources.
func (e *Engine) Close() {
	e.cache.Close()
}

// Supported reports whether a grammar is registered for path.
func (e *Engine) Supported(path string) bool {
	return e.registry.Supported(path)
}

// Languages returns the names of all registered language front ends.
func (e *Engine) Languages() []string {
	return e.registry.Languages()
}

// Extensions returns every file extension a registered grammar covers.
func (e *Engine) Extensions() []string {
	return e.registry.Extensions()
}

func (e *Engine) queryFiles(opts []QueryOption) ([]string, error) {
	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.path != "" {
		return []string{o.path}, nil
	}

	files, err := e.lister.ListFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to list project files: %w", err)
	}
	return files, nil
}
