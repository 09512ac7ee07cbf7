package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wgslfront/internal/diagfmt"
	"wgslfront/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.wgsl",
	Short: "Parse a WGSL source file and print its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|tree|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	cleanup, err := setupRuntime(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	defer dumpTraceOnPanic(cmd.Context())

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Parse(cmd.Context(), args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	// Диагностика в stderr, дерево в stdout
	if result.Bag.Len() > 0 {
		result.Bag.Sort()
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			Context:   1,
			ShowNotes: true,
		})
	}
	if result.Bag.HasErrors() {
		exitCode = 1
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		return diagfmt.FormatASTPretty(out, result.Builder, result.FileSet)
	case "tree":
		return diagfmt.FormatASTTree(out, result.Builder, result.FileSet)
	case "json":
		return diagfmt.FormatASTJSON(out, result.Builder, result.FileSet)
	}
	return fmt.Errorf("unknown format: %s", format)
}
