package mcp

// Implementation Plan:
// 1. MCPServer struct owning the engine, file executor, searcher, and watcher
// 2. NewMCPServer - wires the workspace stack and registers every tool
// 3. Serve - stdio transport with graceful shutdown on SIGTERM/SIGINT
// 4. Close releases the engine and watcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/codescope/internal/analyzer"
	"github.com/mvp-joe/codescope/internal/config"
	"github.com/mvp-joe/codescope/internal/files"
	"github.com/mvp-joe/codescope/internal/watcher"
)

const serverVersion = "1.0.0"

// MCPServer manages the MCP server lifecycle over one workspace.
type MCPServer struct {
	sessionID string
	config    *config.Config
	engine    *analyzer.Engine
	watcher   *watcher.FileWatcher
	mcp       *server.MCPServer
}

// NewMCPServer wires the analysis engine, file tools, and optional watcher
// for the workspace at root and registers every tool on a stdio MCP server.
func NewMCPServer(root string, cfg *config.Config) (*MCPServer, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	maxFileSize := int64(cfg.Cache.MaxFileSizeKB) * 1024
	provider, err := files.NewWorkspaceProvider(root, maxFileSize)
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
		return nil, fmt.Errorf("failed to create analysis engine: %w", err)
	}

	executor := files.NewExecutor(provider, engine)
	searcher := files.NewSearcher(provider, discovery)

	mcpServer := server.NewMCPServer(
		"codescope",
		serverVersion,
		server.WithToolCapabilities(true),
	)

	AddAnalyzeStructureTool(mcpServer, engine)
	AddFindSymbolTool(mcpServer, engine)
	AddFindReferencesTool(mcpServer, engine)
	AddReadFileTool(mcpServer, executor)
	AddWriteFileTool(mcpServer, executor)
	AddEditFileTool(mcpServer, executor)
	AddListFilesTool(mcpServer, executor)
	AddSearchTextTool(mcpServer, searcher)

	s := &MCPServer{
		sessionID: uuid.New().String(),
		config:    cfg,
		engine:    engine,
		mcp:       mcpServer,
	}

	if cfg.Watcher.Enabled {
		fw, err := watcher.New(root, engine.Extensions(),
			engine, time.Duration(cfg.Watcher.DebounceMS)*time.Millisecond)
		if err != nil {
			engine.Close()
			return nil, fmt.Errorf("failed to create file watcher: %w", err)
		}
		s.watcher = fw
	}

	return s, nil
}

// SessionID identifies this server instance in logs.
func (s *MCPServer) SessionID() string {
	return s.sessionID
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *MCPServer) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.watcher != nil {
		s.watcher.Start(ctx)
		defer s.watcher.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio (session %s)...", s.sessionID)
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases all resources.
func (s *MCPServer) Close() error {
	var err error
	if s.watcher != nil {
		err = s.watcher.Stop()
	}
	if s.engine != nil {
		s.engine.Close()
	}
	return err
}
