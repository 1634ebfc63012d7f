package graph

import "fmt"

// Node is a crawled page: its absolute URL and the text content extracted
// the first time the page was fetched.
type Node struct {
	// URL is the absolute page URL and the unique node key.
	URL string

	// TextContent is the extracted page text. Empty if the page had none.
	// Fixed at first add; never overwritten.
	TextContent string
}

// Edge is a directed link between two pages.
type Edge struct {
	// Source is the URL of the page the link was found on.
	Source string

	// Target is the resolved URL the link points at.
	Target string

	// Weight counts how many times this (source, target) link was observed.
	Weight int
}

type edgeKey struct {
	source string
	target string
}

// Graph is a directed link graph with weighted edges.
//
// Nodes are keyed by URL and edges by their (source, target) pair; neither is
// ever duplicated. Iteration order is insertion order, so a graph built by a
// crawl lists pages and links in discovery order.
//
// A Graph is not safe for concurrent use. Each crawl owns its graph
// exclusively and mutates it sequentially, so no locking is needed.
type Graph struct {
	// nodeIndex maps a URL to its position in nodes.
	nodeIndex map[string]int
	nodes     []Node

	// edgeIndex maps a (source, target) pair to its position in edges.
	edgeIndex map[edgeKey]int
	edges     []Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodeIndex: make(map[string]int),
		edgeIndex: make(map[edgeKey]int),
	}
}

// HasNode reports whether url has been added as a node.
func (g *Graph) HasNode(url string) bool {
	_, ok := g.nodeIndex[url]
	return ok
}

// HasEdge reports whether an edge from source to target exists.
func (g *Graph) HasEdge(source, target string) bool {
	_, ok := g.edgeIndex[edgeKey{source, target}]
	return ok
}

// AddNode adds url as a node with the given text content.
// If the node already exists this is a no-op: text content is fixed at the
// first add and never overwritten.
func (g *Graph) AddNode(url, textContent string) {
	if g.HasNode(url) {
		return
	}
	g.nodeIndex[url] = len(g.nodes)
	g.nodes = append(g.nodes, Node{URL: url, TextContent: textContent})
}

// AddEdge adds an edge from source to target with weight 1.
// If the edge already exists this is a no-op; the existing weight is kept.
// Returns ErrNodeNotFound if either endpoint has not been added as a node.
//
// This is the plain, weight-unaware add used when rebuilding a graph from a
// saved document. Crawling uses IncrementEdge instead.
func (g *Graph) AddEdge(source, target string) error {
	if err := g.checkEndpoints(source, target); err != nil {
		return err
	}
	key := edgeKey{source, target}
	if _, ok := g.edgeIndex[key]; ok {
		return nil
	}
	g.edgeIndex[key] = len(g.edges)
	g.edges = append(g.edges, Edge{Source: source, Target: target, Weight: 1})
	return nil
}

// IncrementEdge records one observation of a link from source to target:
// it creates the edge with weight 1, or increments the weight of the
// existing edge by 1.
// Returns ErrNodeNotFound if either endpoint has not been added as a node.
func (g *Graph) IncrementEdge(source, target string) error {
	if err := g.checkEndpoints(source, target); err != nil {
		return err
	}
	key := edgeKey{source, target}
	if i, ok := g.edgeIndex[key]; ok {
		g.edges[i].Weight++
		return nil
	}
	g.edgeIndex[key] = len(g.edges)
	g.edges = append(g.edges, Edge{Source: source, Target: target, Weight: 1})
	return nil
}

func (g *Graph) checkEndpoints(source, target string) error {
	if !g.HasNode(source) {
		return fmt.Errorf("add edge %q -> %q: source: %w", source, target, ErrNodeNotFound)
	}
	if !g.HasNode(target) {
		return fmt.Errorf("add edge %q -> %q: target: %w", source, target, ErrNodeNotFound)
	}
	return nil
}

// Node returns the node for url.
func (g *Graph) Node(url string) (Node, bool) {
	i, ok := g.nodeIndex[url]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Weight returns the weight of the edge from source to target.
func (g *Graph) Weight(source, target string) (int, bool) {
	i, ok := g.edgeIndex[edgeKey{source, target}]
	if !ok {
		return 0, false
	}
	return g.edges[i].Weight, true
}

// Nodes returns all nodes in insertion order.
// The returned slice is a copy and safe to retain.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns all edges in insertion order.
// The returned slice is a copy and safe to retain.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// TotalWeight returns the sum of all edge weights, i.e. the total number of
// link observations recorded in the graph.
func (g *Graph) TotalWeight() int {
	var total int
	for _, e := range g.edges {
		total += e.Weight
	}
	return total
}
