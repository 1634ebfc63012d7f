package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sitegraph/sitegraph/internal/nodelink"
	"github.com/sitegraph/sitegraph/internal/report"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <graph.json>",
		Short: "Summarize a saved graph as Markdown",
		Long: `Report loads a node-link JSON document produced by crawl and prints a
Markdown summary: graph sizes plus the most linked and most linking pages.

Examples:
  # Print the summary to stdout
  sitegraph report sitegraph.json

  # Write it to a file
  sitegraph report -o summary.md sitegraph.json

  # Show more rows in the ranked tables
  sitegraph report -n 25 sitegraph.json`,
		Args: cobra.ExactArgs(1),
		RunE: runReportCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Write the summary to a file instead of stdout")
	cmd.Flags().IntP("top", "n", report.DefaultTopN,
		"Number of rows in each ranked table")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	topN, err := cmd.Flags().GetInt("top")
	if err != nil {
		return err
	}

	g, err := nodelink.Load(args[0])
	if err != nil {
		if errors.Is(err, nodelink.ErrDocumentNotFound) {
			return fmt.Errorf("graph document not found: %s", args[0])
		}
		return fmt.Errorf("failed to load graph document: %w", err)
	}

	summary := report.NewSummary(g, topN)

	w := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output) //nolint:gosec // User-chosen report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := report.NewMarkdownWriter(w).Write(summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
