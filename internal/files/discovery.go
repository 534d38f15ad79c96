package files

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"
)

// compiledPattern holds the pattern string and its compiled globs. The
// simplified form drops a leading "**/" so "**/*.py" also matches files at
// the root, which the strict glob semantics would miss.
type compiledPattern struct {
	pattern    string
	glob       glob.Glob
	simplified glob.Glob
}

func compilePattern(pattern string) (compiledPattern, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return compiledPattern{}, err
	}
	cp := compiledPattern{pattern: pattern, glob: g}
	if strings.HasPrefix(pattern, "**/") {
		if sg, err := glob.Compile(strings.TrimPrefix(pattern, "**/"), '/'); err == nil {
			cp.simplified = sg
		}
	}
	return cp, nil
}

func (cp compiledPattern) match(relPath string) bool {
	if cp.glob.Match(relPath) {
		return true
	}
	return cp.simplified != nil && cp.simplified.Match(relPath)
}

// Discovery enumerates analyzable files under a root with glob include and
// ignore patterns, plus the workspace's .gitignore when present. Paths come
// back root-relative with forward slashes, sorted.
type Discovery struct {
	root      string
	includes  []compiledPattern
	ignores   []compiledPattern
	gitignore *ignore.GitIgnore
}

// NewDiscovery compiles the include and ignore patterns for root. A
// .gitignore at the root is honored when present; a missing one is not an
// error.
func NewDiscovery(root string, includePatterns, ignorePatterns []string) (*Discovery, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	d := &Discovery{root: abs}

	for _, pattern := range includePatterns {
		cp, err := compilePattern(pattern)
		if err != nil {
			return nil, err
		}
		d.includes = append(d.includes, cp)
	}
	for _, pattern := range ignorePatterns {
		cp, err := compilePattern(pattern)
		if err != nil {
			return nil, err
		}
		d.ignores = append(d.ignores, cp)
	}

	if gi, err := ignore.CompileIgnoreFile(filepath.Join(abs, ".gitignore")); err == nil {
		d.gitignore = gi
	}

	return d, nil
}

// ListFiles walks the root and returns every file matching an include
// pattern and no ignore rule.
func (d *Discovery) ListFiles() ([]string, error) {
	var files []string

	err := filepath.Walk(d.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath == "." {
				return nil
			}
			if d.shouldIgnoreDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.shouldIgnore(relPath) {
			return nil
		}
		if d.matchesAnyPattern(relPath, d.includes) {
			files = append(files, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// shouldIgnore checks a file path against ignore globs and .gitignore.
func (d *Discovery) shouldIgnore(relPath string) bool {
	if strings.HasPrefix(relPath, ".git/") {
		return true
	}
	if d.matchesAnyPattern(relPath, d.ignores) {
		return true
	}
	if d.gitignore != nil && d.gitignore.MatchesPath(relPath) {
		return true
	}
	return false
}

// shouldIgnoreDir checks whether an entire directory can be pruned.
func (d *Discovery) shouldIgnoreDir(relPath string) bool {
	if relPath == ".git" {
		return true
	}
	// A pattern like "vendor/**" prunes the vendor directory itself.
	if d.matchesAnyPattern(relPath+"/**", d.ignores) || d.matchesAnyPattern(relPath, d.ignores) {
		return true
	}
	if d.gitignore != nil && d.gitignore.MatchesPath(relPath+"/") {
		return true
	}
	return false
}

func (d *Discovery) matchesAnyPattern(relPath string, patterns []compiledPattern) bool {
	for _, p := range patterns {
		if p.match(relPath) {
			return true
		}
	}
	return false
}
