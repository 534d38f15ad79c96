// Package files supplies the engine's external collaborators: a
// workspace-bounded source text provider, glob-based file enumeration, and
// the write/edit operations that invalidate the analysis cache.
package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot reports a path that escapes the analysis root.
var ErrOutsideRoot = errors.New("path escapes the workspace root")

// ErrTooLarge reports a file exceeding the configured read limit.
var ErrTooLarge = errors.New("file exceeds the size limit")

// WorkspaceProvider reads source text relative to a single root directory
// and refuses paths that resolve outside it. The engine consumes it through
// the analyzer.Provider interface.
type WorkspaceProvider struct {
	root        string // absolute, cleaned
	maxFileSize int64  // bytes, 0 disables the check
}

// NewWorkspaceProvider creates a provider rooted at root. maxFileSize of 0
// disables the size limit.
func NewWorkspaceProvider(root string, maxFileSize int64) (*WorkspaceProvider, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat workspace root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", abs)
	}
	return &WorkspaceProvider{root: abs, maxFileSize: maxFileSize}, nil
}

// Root returns the absolute workspace root.
func (p *WorkspaceProvider) Root() string {
	return p.root
}

// Resolve maps a workspace-relative (or absolute) path to an absolute path
// under the root, rejecting escapes.
func (p *WorkspaceProvider) Resolve(path string) (string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(p.root, path)
	}
	abs = filepath.Clean(abs)

	if abs != p.root && !strings.HasPrefix(abs, p.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return abs, nil
}

// Rel converts a path to the normalized root-relative form used as symbol
// file paths.
func (p *WorkspaceProvider) Rel(path string) (string, error) {
	abs, err := p.Resolve(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(p.root, abs)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Read returns the file's content. I/O errors propagate unchanged so the
// caller can distinguish absence (fs.ErrNotExist) from other failures.
func (p *WorkspaceProvider) Read(path string) ([]byte, error) {
	abs, err := p.Resolve(path)
	if err != nil {
		return nil, err
	}

	if p.maxFileSize > 0 {
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}
		if info.Size() > p.maxFileSize {
			return nil, fmt.Errorf("%w: %s (%d bytes)", ErrTooLarge, path, info.Size())
		}
	}

	return os.ReadFile(abs)
}
