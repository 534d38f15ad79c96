package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvp-joe/codescope/internal/analyzer"
	"github.com/mvp-joe/codescope/internal/config"
	"github.com/mvp-joe/codescope/internal/files"
)

// workspace bundles the objects every command needs: the loaded config and
// an engine wired to the workspace root. Callers must Close it.
type workspace struct {
	Root      string
	Config    *config.Config
	Provider  *files.WorkspaceProvider
	Discovery *files.Discovery
	Engine    *analyzer.Engine
}

// openWorkspace resolves the --root flag, loads .codescope/config.yml plus
// CODESCOPE_* overrides, and builds the analysis engine.
func openWorkspace() (*workspace, error) {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	cfg, err := config.NewLoader(root).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Workspace: %s\n", root)
	}

	provider, err := files.NewWorkspaceProvider(root, int64(cfg.Cache.MaxFileSizeKB)*1024)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}

	discovery, err := files.NewDiscovery(root, cfg.Paths.Include, cfg.Paths.Ignore)
	if err != nil {
		return nil, fmt.Errorf("failed to compile path patterns: %w", err)
	}

	engine, err := analyzer.NewEngine(provider, discovery,
		analyzer.WithCacheCapacity(cfg.Cache.Capacity))
	if err != nil {
		return nil, err
	}

	return &workspace{
		Root:      root,
		Config:    cfg,
		Provider:  provider,
		Discovery: discovery,
		Engine:    engine,
	}, nil
}

// Close releases the engine.
func (w *workspace) Close() {
	w.Engine.Close()
}
