package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the project index:
// 1. Symbols from many files fold into one name-keyed view
// 2. Lookup results order by (file path, line)
// 3. One malformed file is recorded as failed without aborting the batch
// 4. Unsupported files skip silently
// 5. Warnings aggregate across files

func TestBuildIndex_MultiFile(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider(map[string]string{
		"b.py": "def shared():\n    pass\n",
		"a.py": "shared = 1\n\n\ndef only_a():\n    pass\n",
	})
	cache := newTestCache(t, provider)

	ix, err := cache.BuildIndex(context.Background(), []string{"b.py", "a.py"})
	require.NoError(t, err)
	assert.Empty(t, ix.Failed)

	shared := ix.Lookup("shared")
	require.Len(t, shared, 2)
	assert.Equal(t, "a.py", shared[0].FilePath, "lexical path order")
	assert.Equal(t, "b.py", shared[1].FilePath)

	assert.Len(t, ix.Lookup("only_a"), 1)
	assert.Empty(t, ix.Lookup("absent"))
	assert.Equal(t, []string{"only_a", "shared"}, ix.Names())
	assert.Equal(t, 2, ix.Size())
}

func TestBuildIndex_FailureIsolation(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider(map[string]string{
		"good.py":   "def fine():\n    pass\n",
		"broken.py": "def broken(:\n",
		"notes.txt": "plain text",
	})
	cache := newTestCache(t, provider)

	ix, err := cache.BuildIndex(context.Background(),
		[]string{"good.py", "broken.py", "notes.txt"})
	require.NoError(t, err)

	assert.Len(t, ix.Lookup("fine"), 1, "healthy files index despite a broken sibling")
	require.Len(t, ix.Failed, 1)
	assert.Equal(t, "broken.py", ix.Failed[0].Path)
}

func TestBuildIndex_ContextCancelled(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider(map[string]string{"a.py": "x = 1\n"})
	cache := newTestCache(t, provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cache.BuildIndex(ctx, []string{"a.py"})
	assert.ErrorIs(t, err, context.Canceled)
}
