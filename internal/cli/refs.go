package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codescope/internal/analyzer"
)

var (
	refsPath string
	refsJSON bool
)

// refsCmd represents the refs command
var refsCmd = &cobra.Command{
	Use:   "refs <name>",
	Short: "Find every reference to a symbol",
	Long: `Scan the workspace for exact-identifier occurrences of a symbol name and
classify each as a definition or a usage. Substring hits inside longer
identifiers are never reported.

Examples:
  codescope refs UserService
  codescope refs helper --path src/utils.py`,
	Args: cobra.ExactArgs(1),
	RunE: runRefs,
}

func init() {
	refsCmd.Flags().StringVar(&refsPath, "path", "", "restrict the scan to one file")
	refsCmd.Flags().BoolVar(&refsJSON, "json", false, "emit JSON instead of text")
	rootCmd.AddCommand(refsCmd)
}

func runRefs(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	var opts []analyzer.QueryOption
	if refsPath != "" {
		opts = append(opts, analyzer.WithPath(refsPath))
	}

	result, err := ws.Engine.FindReferences(context.Background(), args[0], opts...)
	if err != nil {
		return err
	}

	if refsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.References); err != nil {
			return err
		}
	} else {
		for _, ref := range result.References {
			marker := " "
			if ref.IsDefinition {
				marker = "*"
			}
			fmt.Printf("%s %s:%d:%d  %s\n", marker, ref.FilePath, ref.Line, ref.Column, ref.Context)
		}
		fmt.Fprintf(os.Stderr, "%d reference(s), * marks definitions\n", len(result.References))
	}

	for _, failure := range result.Failed {
		fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", failure.Path, failure.Err)
	}
	return nil
}
