package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/sitegraph/sitegraph/internal/graph"
)

// Fetcher is implemented by objects that can retrieve the raw content of a
// page. A failed fetch (network error or non-success status) returns an
// error; the crawler abandons that branch and moves on.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Extractor is implemented by objects that can pull plain text and hyperlink
// references out of raw page content. ExtractLinks returns raw href strings
// in document order.
type Extractor interface {
	ExtractText(content []byte) string
	ExtractLinks(content []byte) []string
}

// Spider crawls a website and records it as a weighted link graph.
type Spider struct {
	fetcher   Fetcher
	extractor Extractor
	logger    *slog.Logger

	// maxPages caps how many pages are fetched per crawl. 0 means no cap.
	// Links into pages that were already fetched are still recorded after
	// the cap is hit; only new fetches stop.
	maxPages int
}

// Option configures a Spider.
type Option func(*Spider)

// WithMaxPages caps the number of pages fetched during a crawl.
// 0 (the default) means unlimited.
func WithMaxPages(n int) Option {
	return func(s *Spider) {
		s.maxPages = n
	}
}

// WithLogger sets the logger used for fetch failure reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider using the given fetcher and extractor.
func NewSpider(fetcher Fetcher, extractor Extractor, opts ...Option) *Spider {
	s := &Spider{
		fetcher:   fetcher,
		extractor: extractor,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// frame is one page mid-walk: the page URL and the hrefs found on it, with a
// cursor marking how far the link list has been processed. The frame stack
// replaces call-stack recursion, keeping the same depth-first order.
type frame struct {
	pageURL string
	hrefs   []string
	next    int
}

// Crawl walks the site rooted at rootURL and returns the resulting graph.
//
// A failed root fetch is not an error: it yields an empty graph, the same
// way any other fetch failure just prunes its branch. The only error cases
// are an unparseable root URL and context cancellation; on cancellation the
// partial graph built so far is returned alongside ctx.Err().
func (s *Spider) Crawl(ctx context.Context, rootURL string) (*graph.Graph, error) {
	base, err := url.Parse(rootURL)
	if err != nil {
		return nil, fmt.Errorf("invalid root URL %q: %w", rootURL, err)
	}

	g := graph.New()
	fetched := 0

	stack := make([]*frame, 0, 16)
	if fr := s.visit(ctx, g, rootURL, &fetched); fr != nil {
		stack = append(stack, fr)
	}

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return g, ctx.Err()
		default:
		}

		top := stack[len(stack)-1]
		if top.next >= len(top.hrefs) {
			stack = stack[:len(stack)-1]
			continue
		}
		href := top.hrefs[top.next]
		top.next++

		// Follow policy: only site-root-relative paths, and never the
		// bare "/" (it would put a useless self-loop on every page).
		if !strings.HasPrefix(href, "/") || href == "/" {
			continue
		}

		ref, err := url.Parse(href)
		if err != nil {
			s.logger.Warn("skipping unparseable href", "page", top.pageURL, "href", href)
			continue
		}
		target := base.ResolveReference(ref).String()

		// Depth-first descent: a URL that is not yet a node has never been
		// fetched successfully, so try it now. Failed targets stay absent
		// and are retried whenever another page links to them.
		if !g.HasNode(target) {
			if fr := s.visit(ctx, g, target, &fetched); fr != nil {
				stack = append(stack, fr)
			}
		}

		// Record the link observation, whether the target was new or seen
		// before. If the fetch just failed the target is still not a node
		// and the edge is skipped: failed pages get no edges at all.
		if g.HasNode(target) {
			if err := g.IncrementEdge(top.pageURL, target); err != nil {
				return g, fmt.Errorf("record link %s -> %s: %w", top.pageURL, target, err)
			}
		}
	}

	return g, nil
}

// visit fetches one page, adds it to the graph, and returns its frame.
// It returns nil when the page could not be fetched or the page budget is
// spent; either way the caller just carries on.
func (s *Spider) visit(ctx context.Context, g *graph.Graph, pageURL string, fetched *int) *frame {
	if s.maxPages > 0 && *fetched >= s.maxPages {
		s.logger.Debug("page budget reached, not fetching", "url", pageURL)
		return nil
	}

	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		// Non-fatal: log and prune this branch.
		s.logger.Warn("fetch failed", "url", pageURL, "error", err)
		return nil
	}
	*fetched++

	g.AddNode(pageURL, s.extractor.ExtractText(body))

	return &frame{
		pageURL: pageURL,
		hrefs:   s.extractor.ExtractLinks(body),
	}
}
