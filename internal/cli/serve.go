package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codescope/internal/config"
	"github.com/mvp-joe/codescope/internal/mcp"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for code analysis",
	Long: `Start the Model Context Protocol (MCP) server that lets LLM-powered coding
assistants analyze and edit this workspace.

The MCP server:
- Exposes analyze_structure, find_symbol, and find_references tools
- Exposes read_file, write_file, edit_file, list_files, and search_text tools
- Invalidates analysis results when files change on disk
- Communicates via stdio (standard MCP transport)

Example:
  codescope serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	cfg, err := config.NewLoader(root).Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	server, err := mcp.NewMCPServer(root, cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	fmt.Fprintf(os.Stderr, "Codescope MCP Server\n")
	fmt.Fprintf(os.Stderr, "Workspace: %s\n", root)
	if verbose {
		fmt.Fprintf(os.Stderr, "Session: %s\n", server.SessionID())
	}

	return server.Serve(context.Background())
}
