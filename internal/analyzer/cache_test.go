package analyzer

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codescope/internal/analyzer/parsers"
)

// Test Plan for the file cache:
// 1. First query parses, second identical query is a fingerprint hit
// 2. Changed content re-parses, unchanged content never re-parses
// 3. Invalidate forces the next query to re-parse
// 4. Parse failure removes any stale entry for the path
// 5. Unsupported extensions map to ErrUnsupportedLanguage
// 6. Read failures propagate unchanged
// 7. Cancelled context stops the query

// fakeProvider is an in-memory source store doubling as a file lister.
type fakeProvider struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeProvider(files map[string]string) *fakeProvider {
	p := &fakeProvider{
		files: make(map[string][]byte, len(files)),
	}
	for path, content := range files {
		p.files[path] = []byte(content)
	}
	return p
}

func (p *fakeProvider) Read(path string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	content, ok := p.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return content, nil
}

func (p *fakeProvider) set(path, content string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.files[path] = []byte(content)
}

func (p *fakeProvider) ListFiles() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	paths := make([]string, 0, len(p.files))
	for path := range p.files {
		paths = append(paths, path)
	}
	return paths, nil
}

func newTestCache(t *testing.T, provider Provider) *FileCache {
	t.Helper()
	cache, err := NewFileCache(provider, parsers.NewRegistry(), 64)
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	return cache
}

func TestFileCache_FingerprintHit(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider(map[string]string{
		"a.py": "def f():\n    pass\n",
	})
	cache := newTestCache(t, provider)
	ctx := context.Background()

	first, err := cache.GetOrParse(ctx, "a.py")
	require.NoError(t, err)
	require.Len(t, first.Symbols, 1)

	second, err := cache.GetOrParse(ctx, "a.py")
	require.NoError(t, err)
	assert.Same(t, first, second, "unchanged content must return the cached entry")
	assert.Equal(t, first.ExtractedAt, second.ExtractedAt)
}

func TestFileCache_ChangedContentReparses(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider(map[string]string{
		"a.py": "def old():\n    pass\n",
	})
	cache := newTestCache(t, provider)
	ctx := context.Background()

	first, err := cache.GetOrParse(ctx, "a.py")
	require.NoError(t, err)
	assert.Equal(t, "old", first.Symbols[0].Name)

	provider.set("a.py", "def new():\n    pass\n")

	second, err := cache.GetOrParse(ctx, "a.py")
	require.NoError(t, err)
	assert.Equal(t, "new", second.Symbols[0].Name)
	assert.NotEqual(t, first.Fingerprint, second.Fingerprint)
}

func TestFileCache_Invalidate(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider(map[string]string{
		"a.py": "x = 1\n",
	})
	cache := newTestCache(t, provider)
	ctx := context.Background()

	first, err := cache.GetOrParse(ctx, "a.py")
	require.NoError(t, err)

	cache.Invalidate("a.py")

	second, err := cache.GetOrParse(ctx, "a.py")
	require.NoError(t, err)
	assert.NotSame(t, first, second, "invalidation must force a fresh entry")
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
}

func TestFileCache_ParseErrorEvictsStaleEntry(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider(map[string]string{
		"a.py": "def ok():\n    pass\n",
	})
	cache := newTestCache(t, provider)
	ctx := context.Background()

	_, err := cache.GetOrParse(ctx, "a.py")
	require.NoError(t, err)

	provider.set("a.py", "def broken(:\n")

	_, err = cache.GetOrParse(ctx, "a.py")
	var perr *parsers.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "a.py", perr.Path)

	// The old entry for the previous content must be gone too: restoring
	// the broken bytes' fingerprint check must not resurrect stale symbols.
	assert.Equal(t, 0, cache.Len())
}

func TestFileCache_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider(map[string]string{
		"notes.txt": "not code",
	})
	cache := newTestCache(t, provider)

	_, err := cache.GetOrParse(context.Background(), "notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestFileCache_ReadErrorPropagates(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider(nil)
	cache := newTestCache(t, provider)

	_, err := cache.GetOrParse(context.Background(), "missing.py")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFileCache_ContextCancelled(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider(map[string]string{"a.py": "x = 1\n"})
	cache := newTestCache(t, provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cache.GetOrParse(ctx, "a.py")
	assert.True(t, errors.Is(err, context.Canceled))
}
