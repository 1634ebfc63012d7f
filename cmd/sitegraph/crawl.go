package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sitegraph/sitegraph/internal/archive"
	"github.com/sitegraph/sitegraph/internal/config"
	"github.com/sitegraph/sitegraph/internal/crawler"
	"github.com/sitegraph/sitegraph/internal/extractor"
	"github.com/sitegraph/sitegraph/internal/fetcher"
	"github.com/sitegraph/sitegraph/internal/graph"
	"github.com/sitegraph/sitegraph/internal/log"
	"github.com/sitegraph/sitegraph/internal/nodelink"
	"github.com/sitegraph/sitegraph/internal/pipeline"
	"github.com/sitegraph/sitegraph/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url]",
		Short: "Crawl a website and build its link graph",
		Long: `Crawl fetches the root URL, follows every internal hyperlink it finds,
and builds a weighted directed graph of the site. Each node holds a page's
extracted text; each edge counts how often one page links to another.

The graph is written as a node-link JSON document.

Examples:
  # Crawl a single site
  sitegraph crawl https://example.com

  # Crawl several sites concurrently
  sitegraph crawl https://example.com https://example.org

  # Choose the output file (single root only)
  sitegraph crawl -o example.json https://example.com

  # Archive the crawl in the local SQLite database
  sitegraph crawl --archive https://example.com

  # Also write a Markdown summary next to the document
  sitegraph crawl --report https://example.com

  # Use a custom configuration file
  sitegraph crawl -c myconfig.yaml https://example.com

Configuration file (.sitegraph) example:
  sites:
    example.com:
      userAgent: "mybot/2.0"
      maxPages: 50
  defaults:
    maxPages: 200`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to fetch per site (0 = unlimited)")
	cmd.Flags().StringP("user-agent", "u", "",
		"User-Agent header to send with each request")
	cmd.Flags().Int64("max-body-size", 0,
		"Maximum response body size in bytes (0 = default limit)")

	// Batch crawling flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent crawls when several roots are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitegraph in current or home directory)")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutput,
		"Node-link document path (single root only)")
	cmd.Flags().BoolP("archive", "a", false,
		"Record the crawl in the SQLite archive")
	cmd.Flags().BoolP("report", "r", false,
		"Write a Markdown summary next to each document")
	cmd.Flags().String("data-dir", "",
		"Directory holding the archive database (default: XDG data directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.Output, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Archive, err = cmd.Flags().GetBool("archive")
	if err != nil {
		return nil, err
	}

	cfg.Report, err = cmd.Flags().GetBool("report")
	if err != nil {
		return nil, err
	}

	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-site overrides from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Sites, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.Sites = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Get positional arguments (root URLs)
	cfg.Roots = args

	return cfg, nil
}

// siteCrawler crawls one root at a time, building a spider tuned with the
// per-site overrides for the root's host. It satisfies pipeline.Crawler, so
// overrides apply in batch mode too.
type siteCrawler struct {
	cfg    *config.Config
	client *http.Client
	logger *slog.Logger
}

// Crawl builds a spider for rootURL's host and crawls the site.
func (sc *siteCrawler) Crawl(ctx context.Context, rootURL string) (*graph.Graph, error) {
	userAgent := sc.cfg.UserAgent
	maxPages := sc.cfg.MaxPages

	if u, err := url.Parse(rootURL); err == nil {
		overrides := sc.cfg.SiteOverrides(u.Host)
		if userAgent == "" && overrides.UserAgent != "" {
			userAgent = overrides.UserAgent
		}
		if overrides.MaxPages != 0 {
			maxPages = overrides.MaxPages
		}
	}

	fetchOpts := make([]fetcher.Option, 0, 2)
	if userAgent != "" {
		fetchOpts = append(fetchOpts, fetcher.WithUserAgent(userAgent))
	}
	if sc.cfg.MaxBodySize > 0 {
		fetchOpts = append(fetchOpts, fetcher.WithMaxBodySize(sc.cfg.MaxBodySize))
	}

	spider := crawler.NewSpider(
		fetcher.New(sc.client, fetchOpts...),
		extractor.New(),
		crawler.WithMaxPages(maxPages),
		crawler.WithLogger(sc.logger),
	)
	return spider.Crawl(ctx, rootURL)
}

// runCrawl executes the crawl.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"roots", cfg.Roots,
		"maxPages", cfg.MaxPages,
		"batchSize", cfg.BatchSize,
		"archive", cfg.Archive,
	)

	// Open the archive if recording is enabled
	var arch *archive.Archive
	if cfg.Archive {
		var err error
		arch, err = archive.Open(cfg.DataDir, archive.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer arch.Close()
		logger.Info("archive opened", "path", arch.Path())
	}

	sc := &siteCrawler{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}

	// Crawl several roots concurrently when asked to
	if len(cfg.Roots) > 1 && cfg.BatchSize > 1 {
		return runBatchCrawl(ctx, cfg, sc, arch, logger)
	}

	// Single root or sequential crawling
	return runSequentialCrawl(ctx, cfg, sc, arch, logger)
}

// runSequentialCrawl crawls roots one at a time.
func runSequentialCrawl(ctx context.Context, cfg *config.Config, sc *siteCrawler, arch *archive.Archive, logger *slog.Logger) error {
	many := len(cfg.Roots) > 1

	for _, root := range cfg.Roots {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Printf("Crawling %s...\n", root)
		startTime := time.Now()

		g, err := sc.Crawl(ctx, root)
		if err != nil {
			logger.Error("crawl failed", "root", root, "error", err)
			fmt.Fprintf(os.Stderr, "Crawl error for %s: %v\n", root, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Crawl completed in %s (%d pages, %d links)\n\n",
			elapsed.Round(time.Millisecond), g.NodeCount(), g.EdgeCount())

		if err := saveResult(ctx, cfg, arch, logger, root, g, many); err != nil {
			logger.Error("failed to save crawl result", "root", root, "error", err)
			fmt.Fprintf(os.Stderr, "Save error for %s: %v\n", root, err)
		}
	}

	return nil
}

// runBatchCrawl crawls multiple roots concurrently using pipeline.Batch.
func runBatchCrawl(ctx context.Context, cfg *config.Config, sc *siteCrawler, arch *archive.Archive, logger *slog.Logger) error {
	fmt.Printf("Starting batch crawl of %d sites (concurrency: %d)...\n\n",
		len(cfg.Roots), cfg.BatchSize)

	startTime := time.Now()

	batch := pipeline.NewBatch(sc,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	results, err := batch.Run(ctx, cfg.Roots)
	if err != nil {
		return err
	}

	failed := 0
	for i, res := range results {
		if res.Err != nil {
			failed++
			logger.Error("crawl failed", "root", res.RootURL, "error", res.Err)
			fmt.Fprintf(os.Stderr, "Crawl error for %s: %v\n", res.RootURL, res.Err)
			continue
		}

		fmt.Printf("[%d/%d] Crawl completed: %s (%d pages, %d links)\n",
			i+1, len(results), res.RootURL, res.Graph.NodeCount(), res.Graph.EdgeCount())

		if err := saveResult(ctx, cfg, arch, logger, res.RootURL, res.Graph, true); err != nil {
			logger.Error("failed to save crawl result", "root", res.RootURL, "error", err)
			fmt.Fprintf(os.Stderr, "Save error for %s: %v\n", res.RootURL, err)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch crawl completed in %s (%d succeeded, %d failed)\n",
		elapsed.Round(time.Millisecond), len(results)-failed, failed)

	return nil
}

// saveResult writes the node-link document and, when enabled, the Markdown
// summary and the archive record for one crawled root.
func saveResult(ctx context.Context, cfg *config.Config, arch *archive.Archive, logger *slog.Logger, rootURL string, g *graph.Graph, many bool) error {
	path := outputPath(cfg, rootURL, many)

	if err := nodelink.Save(g, path); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	fmt.Printf("Graph written to %s\n", path)

	if cfg.Report {
		reportPath := strings.TrimSuffix(path, ".json") + ".md"
		if err := writeMarkdownReport(g, reportPath); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("Report written to %s\n", reportPath)
	}

	if arch != nil {
		crawlID, err := arch.RecordCrawl(ctx, rootURL, g)
		if err != nil {
			return fmt.Errorf("record crawl: %w", err)
		}
		logger.Info("crawl archived", "root", rootURL, "crawlID", crawlID)
	}

	return nil
}

// outputPath picks the document path for one root. With a single root the
// configured output path wins; with several roots each file is named after
// the root's host so documents don't overwrite each other.
func outputPath(cfg *config.Config, rootURL string, many bool) string {
	if !many {
		if cfg.Output != "" {
			return cfg.Output
		}
		return config.DefaultOutput
	}

	u, err := url.Parse(rootURL)
	if err != nil || u.Host == "" {
		return config.DefaultOutput
	}
	return strings.ReplaceAll(u.Host, ":", "_") + ".json"
}

// writeMarkdownReport renders the graph summary as Markdown into path.
func writeMarkdownReport(g *graph.Graph, path string) error {
	f, err := os.Create(path) //nolint:gosec // User-chosen report path is intentional
	if err != nil {
		return err
	}

	summary := report.NewSummary(g, report.DefaultTopN)
	if _, err := report.NewMarkdownWriter(f).Write(summary); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
