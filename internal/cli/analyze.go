package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/codescope/internal/analyzer"
)

var analyzeJSON bool

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Extract the symbol structure of a file or the whole workspace",
	Long: `Parse source files and print their symbol structure: classes, functions,
methods, and module-level variables, with lines, parameters, return types,
and docstrings.

With a path argument only that file is analyzed; without one the whole
workspace is walked.

Examples:
  codescope analyze src/models.py
  codescope analyze --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "emit JSON instead of text")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := context.Background()

	if len(args) == 1 {
		result, err := ws.Engine.AnalyzeStructure(ctx, args[0])
		if err != nil {
			return err
		}
		return printFileResults([]*analyzer.FileResult{result})
	}

	paths, err := ws.Discovery.ListFiles()
	if err != nil {
		return fmt.Errorf("failed to list project files: %w", err)
	}

	bar := newAnalyzeBar(len(paths))
	results := make([]*analyzer.FileResult, 0, len(paths))
	var failed int
	for _, path := range paths {
		result, err := ws.Engine.AnalyzeStructure(ctx, path)
		if bar != nil {
			bar.Add(1)
		}
		if err != nil {
			failed++
			if verbose {
				fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", path, err)
			}
			continue
		}
		results = append(results, result)
	}

	if err := printFileResults(results); err != nil {
		return err
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d file(s) failed to parse\n", failed)
	}
	return nil
}

// newAnalyzeBar returns a progress bar on stderr, or nil when output is JSON
// (the bar would interleave with piped output).
func newAnalyzeBar(total int) *progressbar.ProgressBar {
	if analyzeJSON {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Analyzing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}

func printFileResults(results []*analyzer.FileResult) error {
	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, r := range results {
		fmt.Printf("%s (%s)\n", r.Path, r.Language)
		for _, s := range r.Symbols {
			indent := "  "
			if s.Parent != "" {
				indent = "    "
			}
			fmt.Printf("%s%-8s %s  lines %d-%d\n", indent, s.Kind, s.Name, s.LineStart, s.LineEnd)
		}
		for _, w := range r.Warnings {
			fmt.Printf("  warning: line %d: %s\n", w.Line, w.Message)
		}
	}
	return nil
}
