package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Invalidator is notified after a mutation so stale analysis entries are
// dropped before the next query. The analysis engine satisfies it.
type Invalidator interface {
	Invalidate(path string)
}

// Executor performs the write and edit operations of the tool layer. Every
// successful mutation invalidates the file's analysis cache entry.
type Executor struct {
	provider *WorkspaceProvider
	inv      Invalidator
}

// NewExecutor creates an executor over the workspace. inv may be nil when no
// analysis cache is attached.
func NewExecutor(provider *WorkspaceProvider, inv Invalidator) *Executor {
	return &Executor{provider: provider, inv: inv}
}

// ReadRange returns a file's content, optionally bounded to a 1-based
// inclusive line range. Zero bounds mean "from the start" and "to the end".
func (e *Executor) ReadRange(path string, startLine, endLine int) (string, error) {
	content, err := e.provider.Read(path)
	if err != nil {
		return "", err
	}
	if startLine <= 0 && endLine <= 0 {
		return string(content), nil
	}

	lines := strings.Split(string(content), "\n")
	start := 0
	if startLine > 0 {
		start = startLine - 1
	}
	end := len(lines)
	if endLine > 0 && endLine < end {
		end = endLine
	}
	if start >= len(lines) || start >= end {
		return "", nil
	}
	return strings.Join(lines[start:end], "\n"), nil
}

// WriteFile writes content to path, creating parent directories as needed,
// then invalidates the path.
func (e *Executor) WriteFile(path string, content []byte) error {
	abs, err := e.provider.Resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directories for %s: %w", path, err)
	}
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	e.invalidate(path)
	return nil
}

// EditFile replaces the first occurrence of oldContent with newContent and
// invalidates the path. The old content must be present.
func (e *Executor) EditFile(path, oldContent, newContent string) error {
	content, err := e.provider.Read(path)
	if err != nil {
		return err
	}

	text := string(content)
	if !strings.Contains(text, oldContent) {
		return fmt.Errorf("content to replace not found in %s", path)
	}

	abs, err := e.provider.Resolve(path)
	if err != nil {
		return err
	}
	edited := strings.Replace(text, oldContent, newContent, 1)
	if err := os.WriteFile(abs, []byte(edited), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	e.invalidate(path)
	return nil
}

// ListTree lists directory entries under path, root-relative. Directories
// carry a trailing slash.
func (e *Executor) ListTree(path string, recursive bool) ([]string, error) {
	abs, err := e.provider.Resolve(path)
	if err != nil {
		return nil, err
	}

	if !recursive {
		entries, err := os.ReadDir(abs)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() {
				name += "/"
			}
			names = append(names, name)
		}
		return names, nil
	}

	var names []string
	err = filepath.Walk(abs, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(abs, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			rel += "/"
		}
		names = append(names, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (e *Executor) invalidate(path string) {
	if e.inv == nil {
		return
	}
	if rel, err := e.provider.Rel(path); err == nil {
		e.inv.Invalidate(rel)
	}
}
