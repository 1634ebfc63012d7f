package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sitegraph/sitegraph/internal/graph"
)

// fakeCrawler returns a one-node graph per root and can fail chosen roots.
type fakeCrawler struct {
	failing map[string]error

	mu      sync.Mutex
	active  int32
	maxSeen int32
}

func (f *fakeCrawler) Crawl(_ context.Context, rootURL string) (*graph.Graph, error) {
	cur := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)
	f.mu.Lock()
	if cur > f.maxSeen {
		f.maxSeen = cur
	}
	f.mu.Unlock()

	if err := f.failing[rootURL]; err != nil {
		return nil, err
	}
	g := graph.New()
	g.AddNode(rootURL, "")
	return g, nil
}

func TestBatchRun(t *testing.T) {
	t.Parallel()

	t.Run("returns results in input order", func(t *testing.T) {
		t.Parallel()

		roots := []string{"http://a.test", "http://b.test", "http://c.test"}
		results, err := NewBatch(&fakeCrawler{}).Run(context.Background(), roots)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != len(roots) {
			t.Fatalf("expected %d results, got %d", len(roots), len(results))
		}
		for i, r := range results {
			if r.RootURL != roots[i] {
				t.Errorf("result %d: expected %q, got %q", i, roots[i], r.RootURL)
			}
			if r.Err != nil || r.Graph == nil || !r.Graph.HasNode(roots[i]) {
				t.Errorf("result %d: unexpected outcome %+v", i, r)
			}
		}
	})

	t.Run("a failing root does not stop the rest", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("bad root")
		fc := &fakeCrawler{failing: map[string]error{"http://bad.test": boom}}
		roots := []string{"http://a.test", "http://bad.test", "http://b.test"}

		results, err := NewBatch(fc).Run(context.Background(), roots)
		if err != nil {
			t.Fatalf("unexpected batch error: %v", err)
		}
		if !errors.Is(results[1].Err, boom) {
			t.Errorf("expected failing result to carry its error, got %v", results[1].Err)
		}
		if results[0].Err != nil || results[2].Err != nil {
			t.Error("expected other roots to succeed")
		}
	})

	t.Run("respects the concurrency limit", func(t *testing.T) {
		t.Parallel()

		fc := &fakeCrawler{}
		roots := make([]string, 20)
		for i := range roots {
			roots[i] = "http://site.test"
		}
		if _, err := NewBatch(fc, WithConcurrency(2)).Run(context.Background(), roots); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fc.maxSeen > 2 {
			t.Errorf("expected at most 2 concurrent crawls, saw %d", fc.maxSeen)
		}
	})

	t.Run("cancellation surfaces as batch error", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewBatch(&fakeCrawler{}).Run(ctx, []string{"http://a.test"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
