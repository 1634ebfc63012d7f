package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sitegraph/sitegraph/internal/extractor"
	"github.com/sitegraph/sitegraph/internal/fetcher"
)

// stubFetcher serves pages from a map and counts fetches per URL.
// URLs missing from the map fail with a stub error.
type stubFetcher struct {
	pages   map[string]string
	fetches map[string]int
}

func newStubFetcher(pages map[string]string) *stubFetcher {
	return &stubFetcher{pages: pages, fetches: make(map[string]int)}
}

func (s *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	s.fetches[url]++
	body, ok := s.pages[url]
	if !ok {
		return nil, fmt.Errorf("fetch %s: boom", url)
	}
	return []byte(body), nil
}

const site = "http://site.test"

func newTestSpider(f Fetcher, opts ...Option) *Spider {
	return NewSpider(f, extractor.New(), opts...)
}

func TestCrawl(t *testing.T) {
	t.Parallel()

	t.Run("weights repeated links, ignores external and bare slash", func(t *testing.T) {
		t.Parallel()

		f := newStubFetcher(map[string]string{
			site:        `<a href="/a">x</a><a href="/a">y</a><a href="http://other.com">z</a><a href="/">home</a>`,
			site + "/a": `no links here`,
		})

		g, err := newTestSpider(f).Crawl(context.Background(), site)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := g.NodeCount(); got != 2 {
			t.Fatalf("expected 2 nodes, got %d: %v", got, g.Nodes())
		}
		if !g.HasNode(site) || !g.HasNode(site+"/a") {
			t.Errorf("expected root and /a nodes, got %v", g.Nodes())
		}
		if got := g.EdgeCount(); got != 1 {
			t.Fatalf("expected 1 edge, got %d: %v", got, g.Edges())
		}
		if w, ok := g.Weight(site, site+"/a"); !ok || w != 2 {
			t.Errorf("expected edge weight 2, got %d (exists=%v)", w, ok)
		}
	})

	t.Run("root fetch failure yields empty graph without error", func(t *testing.T) {
		t.Parallel()

		f := newStubFetcher(nil)
		g, err := newTestSpider(f).Crawl(context.Background(), site)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if g.NodeCount() != 0 || g.EdgeCount() != 0 {
			t.Errorf("expected empty graph, got %d nodes %d edges", g.NodeCount(), g.EdgeCount())
		}
	})

	t.Run("cycles terminate and still record the back edge", func(t *testing.T) {
		t.Parallel()

		f := newStubFetcher(map[string]string{
			site:        `<a href="/a">a</a>`,
			site + "/a": `<a href="/b">b</a>`,
			site + "/b": `<a href="/a">back</a>`,
		})

		g, err := newTestSpider(f).Crawl(context.Background(), site)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := g.NodeCount(); got != 3 {
			t.Fatalf("expected 3 nodes, got %d", got)
		}
		if w, ok := g.Weight(site+"/b", site+"/a"); !ok || w != 1 {
			t.Errorf("expected back edge weight 1, got %d (exists=%v)", w, ok)
		}
		if got := f.fetches[site+"/a"]; got != 1 {
			t.Errorf("expected /a fetched once, got %d", got)
		}
	})

	t.Run("page text is fixed at first fetch", func(t *testing.T) {
		t.Parallel()

		f := newStubFetcher(map[string]string{
			site:        `<a href="/a">a</a><a href="/b">b</a>`,
			site + "/a": `<a href="/c">c</a>`,
			site + "/b": `<a href="/c">c</a>`,
			site + "/c": `<p>target page</p>`,
		})

		g, err := newTestSpider(f).Crawl(context.Background(), site)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := f.fetches[site+"/c"]; got != 1 {
			t.Errorf("expected /c fetched exactly once, got %d", got)
		}
		n, ok := g.Node(site + "/c")
		if !ok || n.TextContent != "target page" {
			t.Errorf("expected /c node with its text, got %+v (exists=%v)", n, ok)
		}
		// Both pages linked /c, so it has two inbound edges of weight 1.
		for _, src := range []string{site + "/a", site + "/b"} {
			if w, ok := g.Weight(src, site+"/c"); !ok || w != 1 {
				t.Errorf("expected edge %s -> /c weight 1, got %d (exists=%v)", src, w, ok)
			}
		}
	})

	t.Run("failed targets get no node and no edges, and are retried", func(t *testing.T) {
		t.Parallel()

		f := newStubFetcher(map[string]string{
			site: `<a href="/bad">1</a><a href="/bad">2</a>`,
		})

		g, err := newTestSpider(f).Crawl(context.Background(), site)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if g.HasNode(site + "/bad") {
			t.Error("failed page must not become a node")
		}
		if g.EdgeCount() != 0 {
			t.Errorf("failed page must not receive edges, got %v", g.Edges())
		}
		// Each sighting retries the fetch since the URL never became a node.
		if got := f.fetches[site+"/bad"]; got != 2 {
			t.Errorf("expected 2 fetch attempts for /bad, got %d", got)
		}
	})

	t.Run("self links produce self edges", func(t *testing.T) {
		t.Parallel()

		f := newStubFetcher(map[string]string{
			site:        `<a href="/a">a</a>`,
			site + "/a": `<a href="/a">me</a><a href="/a">me again</a>`,
		})

		g, err := newTestSpider(f).Crawl(context.Background(), site)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w, ok := g.Weight(site+"/a", site+"/a"); !ok || w != 2 {
			t.Errorf("expected self-edge weight 2, got %d (exists=%v)", w, ok)
		}
	})

	t.Run("discovery is depth first in document order", func(t *testing.T) {
		t.Parallel()

		f := newStubFetcher(map[string]string{
			site:        `<a href="/a">a</a><a href="/b">b</a>`,
			site + "/a": `<a href="/c">c</a>`,
			site + "/b": ``,
			site + "/c": ``,
		})

		g, err := newTestSpider(f).Crawl(context.Background(), site)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{site, site + "/a", site + "/c", site + "/b"}
		nodes := g.Nodes()
		if len(nodes) != len(want) {
			t.Fatalf("expected %d nodes, got %d", len(want), len(nodes))
		}
		for i, n := range nodes {
			if n.URL != want[i] {
				t.Errorf("node %d: expected %q, got %q", i, want[i], n.URL)
			}
		}
	})

	t.Run("page budget stops new fetches", func(t *testing.T) {
		t.Parallel()

		f := newStubFetcher(map[string]string{
			site:        `<a href="/a">a</a>`,
			site + "/a": ``,
		})

		g, err := newTestSpider(f, WithMaxPages(1)).Crawl(context.Background(), site)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := g.NodeCount(); got != 1 {
			t.Errorf("expected only the root node, got %d", got)
		}
		if g.EdgeCount() != 0 {
			t.Errorf("unfetched target must not receive an edge, got %v", g.Edges())
		}
	})

	t.Run("invalid root URL is an error", func(t *testing.T) {
		t.Parallel()

		f := newStubFetcher(nil)
		if _, err := newTestSpider(f).Crawl(context.Background(), "http://%zz"); err == nil {
			t.Error("expected error for invalid root URL")
		}
	})

	t.Run("cancellation returns the partial graph", func(t *testing.T) {
		t.Parallel()

		f := newStubFetcher(map[string]string{
			site:        `<a href="/a">a</a>`,
			site + "/a": ``,
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		g, err := newTestSpider(f).Crawl(ctx, site)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if g == nil {
			t.Error("expected partial graph, got nil")
		}
	})
}

// TestCrawlHTTP runs the spider against a real HTTP server with the real
// fetcher, covering the fetch+extract+graph path end to end.
func TestCrawlHTTP(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body><p>home</p><a href="/about">about</a><a href="/missing">gone</a></body></html>`)
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><p>about us</p><a href="/about">self</a></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	spider := NewSpider(fetcher.New(srv.Client()), extractor.New())
	g, err := spider.Crawl(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := g.NodeCount(); got != 2 {
		t.Fatalf("expected 2 nodes, got %d: %v", got, g.Nodes())
	}
	if g.HasNode(srv.URL + "/missing") {
		t.Error("404 page must not become a node")
	}
	if w, ok := g.Weight(srv.URL+"/", srv.URL+"/about"); !ok || w != 1 {
		t.Errorf("expected home -> about weight 1, got %d (exists=%v)", w, ok)
	}
	if w, ok := g.Weight(srv.URL+"/about", srv.URL+"/about"); !ok || w != 1 {
		t.Errorf("expected about self-edge weight 1, got %d (exists=%v)", w, ok)
	}
	n, _ := g.Node(srv.URL + "/about")
	if n.TextContent != "about us\nself" {
		t.Errorf("unexpected about text: %q", n.TextContent)
	}
}
