package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codescope/internal/files"
)

// Test Plan for the file tool handlers:
// 1. read_file returns whole files and line ranges
// 2. write_file creates files and reports escapes as error results
// 3. edit_file replaces content and misses are error results
// 4. list_files returns slashed directories as JSON
// 5. search_text returns matches as JSON

func newFilesFixture(t *testing.T) (*files.Executor, *files.Searcher) {
	t.Helper()

	root := t.TempDir()
	write := func(rel, content string) {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
	write("app.py", "line one\nline two\nline three\n")
	write("src/util.py", "def helper():\n    pass\n")

	provider, err := files.NewWorkspaceProvider(root, 0)
	require.NoError(t, err)
	discovery, err := files.NewDiscovery(root, []string{"**/*.py"}, nil)
	require.NoError(t, err)

	return files.NewExecutor(provider, nil), files.NewSearcher(provider, discovery)
}

func TestReadFileHandler(t *testing.T) {
	t.Parallel()

	executor, _ := newFilesFixture(t)
	handler := createReadFileHandler(executor)
	ctx := context.Background()

	result, err := handler(ctx, requestWith(map[string]interface{}{"path": "app.py"}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, "line one\nline two\nline three\n", resultText(t, result))

	result, err = handler(ctx, requestWith(map[string]interface{}{
		"path":       "app.py",
		"start_line": 2.0,
		"end_line":   2.0,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, "line two", resultText(t, result))

	result, err = handler(ctx, requestWith(map[string]interface{}{
		"path":       "app.py",
		"start_line": 5.0,
		"end_line":   2.0,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Empty(t, resultText(t, result), "crossed bounds yield an empty range")

	result, err = handler(ctx, requestWith(map[string]interface{}{"path": "../etc/passwd"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestWriteFileHandler(t *testing.T) {
	t.Parallel()

	executor, _ := newFilesFixture(t)
	handler := createWriteFileHandler(executor)
	ctx := context.Background()

	result, err := handler(ctx, requestWith(map[string]interface{}{
		"path":    "pkg/new.py",
		"content": "x = 1\n",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "pkg/new.py")

	content, err := executor.ReadRange("pkg/new.py", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", content)
}

func TestEditFileHandler(t *testing.T) {
	t.Parallel()

	executor, _ := newFilesFixture(t)
	handler := createEditFileHandler(executor)
	ctx := context.Background()

	result, err := handler(ctx, requestWith(map[string]interface{}{
		"path":        "app.py",
		"old_content": "line two",
		"new_content": "line 2",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	content, err := executor.ReadRange("app.py", 0, 0)
	require.NoError(t, err)
	assert.Contains(t, content, "line 2")

	result, err = handler(ctx, requestWith(map[string]interface{}{
		"path":        "app.py",
		"old_content": "absent text",
		"new_content": "x",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestListFilesHandler(t *testing.T) {
	t.Parallel()

	executor, _ := newFilesFixture(t)
	handler := createListFilesHandler(executor)

	result, err := handler(context.Background(), requestWith(map[string]interface{}{
		"recursive": true,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var entries []string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &entries))
	assert.Contains(t, entries, "app.py")
	assert.Contains(t, entries, "src/")
	assert.Contains(t, entries, "src/util.py")
}

func TestSearchTextHandler(t *testing.T) {
	t.Parallel()

	_, searcher := newFilesFixture(t)
	handler := createSearchTextHandler(searcher)
	ctx := context.Background()

	result, err := handler(ctx, requestWith(map[string]interface{}{
		"pattern": `def\s+helper`,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var matches []files.Match
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "src/util.py", matches[0].FilePath)
	assert.Equal(t, 1, matches[0].Line)

	result, err = handler(ctx, requestWith(map[string]interface{}{
		"pattern": "(unclosed",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
