package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sitegraph/sitegraph/internal/graph"
)

// DefaultConcurrency is the default number of simultaneous crawls.
const DefaultConcurrency = 4

// Crawler is implemented by anything that can crawl one site into a graph.
type Crawler interface {
	Crawl(ctx context.Context, rootURL string) (*graph.Graph, error)
}

// Result is the outcome of crawling one root URL.
type Result struct {
	// RootURL is the URL this crawl started from.
	RootURL string

	// Graph is the crawled graph. It may be partial when Err is set.
	Graph *graph.Graph

	// Err is the crawl error, if any. Fetch failures inside a crawl are
	// not errors; this is set for bad root URLs and cancellation.
	Err error
}

// Batch crawls several root URLs concurrently with a bounded number of
// goroutines. Each individual crawl remains sequential.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each root gets its own goroutine, but only 'concurrency' goroutines run
// simultaneously.
type Batch struct {
	crawler     Crawler
	concurrency int
	logger      *slog.Logger

	mu      sync.Mutex
	results []Result
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithConcurrency sets the maximum number of concurrent crawls.
func WithConcurrency(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchLogger sets a custom logger for batch progress.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) {
		b.logger = logger
	}
}

// NewBatch creates a Batch using the given crawler.
// The crawler must be safe for concurrent use; the spider is, since a crawl
// keeps all its state on the stack and in its own graph.
func NewBatch(c Crawler, opts ...BatchOption) *Batch {
	b := &Batch{
		crawler:     c,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Run crawls all roots and returns one result per root, in input order.
// A root that fails still yields a result carrying its error; Run itself
// returns an error only when the batch was cancelled.
func (b *Batch) Run(ctx context.Context, roots []string) ([]Result, error) {
	b.logger.Info("starting batch crawl",
		"total_roots", len(roots),
		"concurrency", b.concurrency,
	)
	start := time.Now()

	b.results = make([]Result, len(roots))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, root := range roots {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			b.logger.Info("crawling site", "root", root, "index", i+1, "total", len(roots))

			crawled, err := b.crawler.Crawl(ctx, root)

			b.mu.Lock()
			b.results[i] = Result{RootURL: root, Graph: crawled, Err: err}
			b.mu.Unlock()

			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				// Other failures stay in the result so the remaining
				// roots keep crawling.
				b.logger.Warn("crawl failed", "root", root, "error", err)
			}
			return nil
		})
	}

	err := g.Wait()

	b.logger.Info("batch crawl finished",
		"total_roots", len(roots),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return b.results, err
}
