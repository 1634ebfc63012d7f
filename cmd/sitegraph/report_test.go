package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sitegraph/sitegraph/internal/graph"
	"github.com/sitegraph/sitegraph/internal/nodelink"
)

// TestNewReportCmd tests the report command creation.
func TestNewReportCmd(t *testing.T) {
	t.Parallel()

	cmd := NewReportCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "report <graph.json>" {
			t.Errorf("expected use 'report <graph.json>', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
	})

	t.Run("has top flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("top")
		if flag == nil {
			t.Fatal("expected top flag")
		}
		if flag.Shorthand != "n" {
			t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
		}
	})
}

// saveTestGraph writes a small graph document and returns its path.
func saveTestGraph(t *testing.T) string {
	t.Helper()

	g := graph.New()
	g.AddNode("https://example.com/", "home")
	g.AddNode("https://example.com/about", "about us")
	if err := g.IncrementEdge("https://example.com/", "https://example.com/about"); err != nil {
		t.Fatalf("failed to add edge: %v", err)
	}

	path := filepath.Join(t.TempDir(), "graph.json")
	if err := nodelink.Save(g, path); err != nil {
		t.Fatalf("failed to save graph: %v", err)
	}
	return path
}

func TestRunReportCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints summary to stdout", func(t *testing.T) {
		t.Parallel()
		path := saveTestGraph(t)

		var buf bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&buf)
		root.SetArgs([]string{"report", path})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Site Graph Report") {
			t.Errorf("expected report heading, got %q", output)
		}
		if !strings.Contains(output, "https://example.com/about") {
			t.Errorf("expected linked page in report, got %q", output)
		}
	})

	t.Run("writes summary to file", func(t *testing.T) {
		t.Parallel()
		path := saveTestGraph(t)
		outPath := filepath.Join(t.TempDir(), "summary.md")

		root := NewRootCmd()
		root.SetArgs([]string{"report", "-o", outPath, path})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(outPath) //nolint:gosec // Test-controlled path
		if err != nil {
			t.Fatalf("expected summary file: %v", err)
		}
		if !strings.Contains(string(data), "Site Graph Report") {
			t.Error("expected report heading in file")
		}
	})

	t.Run("returns error for missing document", func(t *testing.T) {
		t.Parallel()
		root := NewRootCmd()
		root.SetArgs([]string{"report", filepath.Join(t.TempDir(), "missing.json")})

		err := root.Execute()
		if err == nil {
			t.Fatal("expected error for missing document")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected 'not found' in error, got %v", err)
		}
	})

	t.Run("returns error for malformed document", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "broken.json")
		if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		root := NewRootCmd()
		root.SetArgs([]string{"report", path})

		if err := root.Execute(); err == nil {
			t.Error("expected error for malformed document")
		}
	})
}
