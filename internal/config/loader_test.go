package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for configuration loading:
// 1. No config file loads pure defaults
// 2. A .codescope/config.yml overrides the defaults it names
// 3. CODESCOPE_* environment variables win over the file
// 4. Invalid values are rejected by validation
// 5. Malformed YAML is an error, a missing file is not

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, Default().Paths.Include, cfg.Paths.Include)
	assert.Equal(t, 16_384, cfg.Cache.Capacity)
	assert.Equal(t, 1024, cfg.Cache.MaxFileSizeKB)
	assert.True(t, cfg.Watcher.Enabled)
	assert.Equal(t, 500, cfg.Watcher.DebounceMS)
}

func writeConfig(t *testing.T, root, content string) {
	t.Helper()
	dir := filepath.Join(root, ".codescope")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o644))
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeConfig(t, root, `
cache:
  capacity: 128
watcher:
  enabled: false
`)

	cfg, err := NewLoader(root).Load()
	require.NoError(t, err)

	assert.Equal(t, 128, cfg.Cache.Capacity)
	assert.False(t, cfg.Watcher.Enabled)
	// Untouched sections keep their defaults.
	assert.Equal(t, 1024, cfg.Cache.MaxFileSizeKB)
	assert.NotEmpty(t, cfg.Paths.Include)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "cache:\n  capacity: 128\n")

	t.Setenv("CODESCOPE_CACHE_CAPACITY", "256")

	cfg, err := NewLoader(root).Load()
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Cache.Capacity)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeConfig(t, root, "cache:\n  capacity: -5\n")

	_, err := NewLoader(root).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capacity")
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeConfig(t, root, "cache: [unbalanced\n")

	_, err := NewLoader(root).Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.Paths.Include = nil
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Watcher.DebounceMS = -1
	assert.Error(t, cfg.Validate())
}
