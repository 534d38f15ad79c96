package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the file watcher:
// 1. A write to a watched extension invalidates the root-relative path
// 2. Files with other extensions are ignored
// 3. Burst writes to one file collapse into one invalidation
// 4. Stop is idempotent

type recordingInvalidator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingInvalidator) Invalidate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recordingInvalidator) invalidated() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func (r *recordingInvalidator) waitFor(t *testing.T, want string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		for _, p := range r.invalidated() {
			if p == want {
				return
			}
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for invalidation of %s, got %v", want, r.invalidated())
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestFileWatcher_InvalidatesOnWrite(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sub := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	inv := &recordingInvalidator{}
	fw, err := New(root, []string{".py"}, inv, 50*time.Millisecond)
	require.NoError(t, err)
	defer fw.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "app.py"), []byte("x = 1\n"), 0o644))

	inv.waitFor(t, "src/app.py")
}

func TestFileWatcher_IgnoresOtherExtensions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	inv := &recordingInvalidator{}
	fw, err := New(root, []string{".py"}, inv, 50*time.Millisecond)
	require.NoError(t, err)
	defer fw.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "code.py"), []byte("x = 1\n"), 0o644))

	inv.waitFor(t, "code.py")
	assert.NotContains(t, inv.invalidated(), "notes.txt")
}

func TestFileWatcher_DebounceCollapsesBursts(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	inv := &recordingInvalidator{}
	fw, err := New(root, []string{".py"}, inv, 100*time.Millisecond)
	require.NoError(t, err)
	defer fw.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	path := filepath.Join(root, "hot.py")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	inv.waitFor(t, "hot.py")
	// Allow any straggling flushes to land before counting.
	time.Sleep(200 * time.Millisecond)

	count := 0
	for _, p := range inv.invalidated() {
		if p == "hot.py" {
			count++
		}
	}
	assert.LessOrEqual(t, count, 2, "burst writes should collapse into few invalidations")
}

func TestFileWatcher_StopIdempotent(t *testing.T) {
	t.Parallel()

	fw, err := New(t.TempDir(), []string{".py"}, &recordingInvalidator{}, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	require.NoError(t, fw.Stop())
	assert.NoError(t, fw.Stop())
}
