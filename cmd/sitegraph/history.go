package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sitegraph/sitegraph/internal/archive"
	"github.com/sitegraph/sitegraph/internal/config"
	"github.com/sitegraph/sitegraph/internal/nodelink"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived crawls",
		Long: `History lists the crawls recorded in the local SQLite archive, newest
first. Use --export to write one archived crawl back out as a node-link
JSON document.

Examples:
  # List the most recent crawls
  sitegraph history

  # List everything
  sitegraph history --limit 0

  # Export crawl 3 as a node-link document
  sitegraph history --export 3 -o crawl3.json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", 20,
		"Maximum number of crawls to list (0 = no limit)")
	cmd.Flags().Int64P("export", "e", 0,
		"Export the crawl with this ID as a node-link document")
	cmd.Flags().StringP("output", "o", "",
		"Document path for --export (default: crawl-<id>.json)")
	cmd.Flags().String("data-dir", "",
		"Directory holding the archive database (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	exportID, err := cmd.Flags().GetInt64("export")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return err
	}
	if dataDir == "" {
		dataDir = config.XDGDataDir()
	}

	if _, err := os.Stat(filepath.Join(dataDir, archive.FileName)); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "No archive found. Run a crawl with --archive first.")
		return nil
	}

	arch, err := archive.Open(dataDir, archive.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer arch.Close()

	if exportID > 0 {
		return exportCrawl(cmd, arch, exportID, output)
	}

	records, err := arch.Crawls(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list crawls: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No crawls recorded yet.")
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-6s %-24s %-8s %-8s %s\n", "ID", "STARTED", "PAGES", "LINKS", "ROOT")
	for _, rec := range records {
		fmt.Fprintf(w, "%-6d %-24s %-8d %-8d %s\n",
			rec.ID,
			rec.StartedAt.Format("2006-01-02 15:04:05"),
			rec.NodeCount,
			rec.EdgeCount,
			rec.RootURL,
		)
	}
	return nil
}

// exportCrawl writes one archived crawl as a node-link JSON document.
func exportCrawl(cmd *cobra.Command, arch *archive.Archive, crawlID int64, output string) error {
	g, err := arch.LoadGraph(cmd.Context(), crawlID)
	if err != nil {
		return fmt.Errorf("failed to load crawl %d: %w", crawlID, err)
	}

	if output == "" {
		output = fmt.Sprintf("crawl-%d.json", crawlID)
	}
	if err := nodelink.Save(g, output); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Crawl %d written to %s\n", crawlID, output)
	return nil
}
