package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codescope/internal/analyzer"
)

var (
	symbolPath string
	symbolAll  bool
	symbolJSON bool
)

// symbolCmd represents the symbol command
var symbolCmd = &cobra.Command{
	Use:   "symbol <name>",
	Short: "Find where a symbol is defined",
	Long: `Look up a symbol by exact name across the workspace and print its
definition site. When the name is defined more than once, the definition
latest in source order wins; --all prints every definition instead.

Examples:
  codescope symbol UserService
  codescope symbol parse_config --path src/config.py --all`,
	Args: cobra.ExactArgs(1),
	RunE: runSymbol,
}

func init() {
	symbolCmd.Flags().StringVar(&symbolPath, "path", "", "restrict the lookup to one file")
	symbolCmd.Flags().BoolVar(&symbolAll, "all", false, "print every definition, not just the winning one")
	symbolCmd.Flags().BoolVar(&symbolJSON, "json", false, "emit JSON instead of text")
	rootCmd.AddCommand(symbolCmd)
}

func runSymbol(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := context.Background()
	name := args[0]

	var opts []analyzer.QueryOption
	if symbolPath != "" {
		opts = append(opts, analyzer.WithPath(symbolPath))
	}

	result, err := ws.Engine.FindSymbols(ctx, name, opts...)
	if err != nil {
		return err
	}
	for _, f := range result.Failed {
		fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", f.Path, f.Err)
	}
	matches := result.Symbols
	if len(matches) == 0 {
		return fmt.Errorf("%w: symbol %q", analyzer.ErrNotFound, name)
	}
	if !symbolAll {
		matches = matches[len(matches)-1:]
	}

	if symbolJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	for _, s := range matches {
		fmt.Printf("%s:%d  %s %s", s.FilePath, s.LineStart, s.Kind, s.Name)
		if s.Parent != "" {
			fmt.Printf(" (in %s)", s.Parent)
		}
		fmt.Println()
		if s.Docstring != "" {
			fmt.Printf("  %s\n", firstLine(s.Docstring))
		}
	}
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

// exitCodeFor maps expected lookup failures to a distinct exit code so
// scripts can tell "not found" from real errors.
func exitCodeFor(err error) int {
	if errors.Is(err, analyzer.ErrNotFound) {
		return 2
	}
	return 1
}
