package nodelink

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sitegraph/sitegraph/internal/graph"
)

// Document is the on-disk node-link layout.
type Document struct {
	Nodes []NodeRecord `json:"nodes"`
	Links []LinkRecord `json:"links"`
}

// NodeRecord is one node entry in a document.
type NodeRecord struct {
	// ID is the page URL and the node's unique identifier.
	ID string `json:"id"`

	// TextContent is the page text captured during the crawl.
	TextContent string `json:"text_content"`
}

// LinkRecord is one directed edge entry in a document.
type LinkRecord struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// Encode converts a graph into its document form, nodes and links in the
// graph's insertion order.
func Encode(g *graph.Graph) *Document {
	nodes := g.Nodes()
	edges := g.Edges()

	doc := &Document{
		Nodes: make([]NodeRecord, 0, len(nodes)),
		Links: make([]LinkRecord, 0, len(edges)),
	}
	for _, n := range nodes {
		doc.Nodes = append(doc.Nodes, NodeRecord{ID: n.URL, TextContent: n.TextContent})
	}
	for _, e := range edges {
		doc.Links = append(doc.Links, LinkRecord{Source: e.Source, Target: e.Target, Weight: e.Weight})
	}
	return doc
}

// Write writes g as an indented node-link JSON document.
func Write(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Encode(g)); err != nil {
		return fmt.Errorf("encode node-link document: %w", err)
	}
	return nil
}

// Read parses a node-link JSON document and rebuilds the graph.
//
// Nodes come back with their text content intact. Links are recreated with a
// plain edge add, so the stored weights are discarded and every edge is
// reloaded with weight 1.
func Read(r io.Reader) (*graph.Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	g := graph.New()
	for i, n := range doc.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node %d has no id", ErrMalformedDocument, i)
		}
		g.AddNode(n.ID, n.TextContent)
	}
	for i, l := range doc.Links {
		if l.Source == "" || l.Target == "" {
			return nil, fmt.Errorf("%w: link %d is missing source or target", ErrMalformedDocument, i)
		}
		if err := g.AddEdge(l.Source, l.Target); err != nil {
			return nil, fmt.Errorf("%w: link %d: %v", ErrMalformedDocument, i, err)
		}
	}
	return g, nil
}

// Save writes g to path as a node-link JSON document.
func Save(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(g, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// Load reads the node-link JSON document at path and rebuilds the graph.
// Returns ErrDocumentNotFound if path does not exist and
// ErrMalformedDocument when the content cannot be decoded.
func Load(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return g, nil
}
