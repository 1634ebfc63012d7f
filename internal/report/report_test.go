package report

import (
	"strings"
	"testing"

	"github.com/sitegraph/sitegraph/internal/graph"
)

func sampleGraph(t *testing.T) *graph.Graph {
	t.Helper()

	g := graph.New()
	g.AddNode("http://site.test", "home")
	g.AddNode("http://site.test/a", "a")
	g.AddNode("http://site.test/b", "b")

	edge := func(src, dst string, times int) {
		for range times {
			if err := g.IncrementEdge(src, dst); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}
	edge("http://site.test", "http://site.test/a", 3)
	edge("http://site.test", "http://site.test/b", 1)
	edge("http://site.test/b", "http://site.test/a", 2)
	return g
}

func TestNewSummary(t *testing.T) {
	t.Parallel()

	t.Run("computes counts and root", func(t *testing.T) {
		t.Parallel()

		s := NewSummary(sampleGraph(t), 0)
		if s.RootURL != "http://site.test" {
			t.Errorf("expected root to be first node, got %q", s.RootURL)
		}
		if s.NodeCount != 3 || s.EdgeCount != 3 {
			t.Errorf("unexpected counts: %+v", s)
		}
		if s.TotalWeight != 6 {
			t.Errorf("expected total weight 6, got %d", s.TotalWeight)
		}
	})

	t.Run("ranks by weight descending", func(t *testing.T) {
		t.Parallel()

		s := NewSummary(sampleGraph(t), 0)
		if len(s.MostLinked) != 2 {
			t.Fatalf("expected 2 linked pages, got %d", len(s.MostLinked))
		}
		top := s.MostLinked[0]
		if top.URL != "http://site.test/a" || top.Weight != 5 || top.Links != 2 {
			t.Errorf("unexpected top target: %+v", top)
		}
		if s.MostLinking[0].URL != "http://site.test" || s.MostLinking[0].Weight != 4 {
			t.Errorf("unexpected top source: %+v", s.MostLinking[0])
		}
	})

	t.Run("truncates to topN", func(t *testing.T) {
		t.Parallel()

		s := NewSummary(sampleGraph(t), 1)
		if len(s.MostLinked) != 1 || len(s.MostLinking) != 1 {
			t.Errorf("expected tables truncated to 1 entry, got %d and %d",
				len(s.MostLinked), len(s.MostLinking))
		}
	})

	t.Run("empty graph", func(t *testing.T) {
		t.Parallel()

		s := NewSummary(graph.New(), 0)
		if s.RootURL != "" || s.NodeCount != 0 || len(s.MostLinked) != 0 {
			t.Errorf("unexpected summary for empty graph: %+v", s)
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders tables", func(t *testing.T) {
		t.Parallel()

		var buf strings.Builder
		s := NewSummary(sampleGraph(t), 0)
		if _, err := NewMarkdownWriter(&buf).Write(s); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# Site Graph Report",
			"## Most Linked Pages",
			"## Pages With Most Outgoing Links",
			"`http://site.test/a`",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q\noutput:\n%s", want, out)
			}
		}
	})

	t.Run("empty graph notes missing links", func(t *testing.T) {
		t.Parallel()

		var buf strings.Builder
		if _, err := NewMarkdownWriter(&buf).Write(NewSummary(graph.New(), 0)); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "No links recorded.") {
			t.Errorf("expected empty note, got:\n%s", buf.String())
		}
	})
}
