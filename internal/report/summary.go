package report

import (
	"sort"

	"github.com/sitegraph/sitegraph/internal/graph"
)

// DefaultTopN is how many entries the ranked tables carry by default.
const DefaultTopN = 10

// PageRank is one entry in a ranked page table.
type PageRank struct {
	// URL is the page URL.
	URL string

	// Links is the number of distinct edges (inbound for targets,
	// outbound for sources).
	Links int

	// Weight is the sum of the corresponding edge weights.
	Weight int
}

// Summary holds the derived statistics of one crawled graph.
type Summary struct {
	// RootURL is the URL the crawl started from: the first discovered node.
	// Empty for an empty graph.
	RootURL string

	// NodeCount and EdgeCount are the graph's sizes.
	NodeCount int
	EdgeCount int

	// TotalWeight is the total number of link observations.
	TotalWeight int

	// MostLinked ranks pages by inbound link weight, descending.
	MostLinked []PageRank

	// MostLinking ranks pages by outbound link weight, descending.
	MostLinking []PageRank
}

// NewSummary computes a Summary from g, keeping the topN entries in each
// ranked table. topN <= 0 uses DefaultTopN.
func NewSummary(g *graph.Graph, topN int) *Summary {
	if topN <= 0 {
		topN = DefaultTopN
	}

	s := &Summary{
		NodeCount:   g.NodeCount(),
		EdgeCount:   g.EdgeCount(),
		TotalWeight: g.TotalWeight(),
	}
	if nodes := g.Nodes(); len(nodes) > 0 {
		s.RootURL = nodes[0].URL
	}

	inbound := make(map[string]*PageRank)
	outbound := make(map[string]*PageRank)
	for _, e := range g.Edges() {
		in := inbound[e.Target]
		if in == nil {
			in = &PageRank{URL: e.Target}
			inbound[e.Target] = in
		}
		in.Links++
		in.Weight += e.Weight

		out := outbound[e.Source]
		if out == nil {
			out = &PageRank{URL: e.Source}
			outbound[e.Source] = out
		}
		out.Links++
		out.Weight += e.Weight
	}

	s.MostLinked = rank(inbound, topN)
	s.MostLinking = rank(outbound, topN)
	return s
}

// rank sorts by weight descending, ties broken by URL for stable output.
func rank(stats map[string]*PageRank, topN int) []PageRank {
	ranked := make([]PageRank, 0, len(stats))
	for _, r := range stats {
		ranked = append(ranked, *r)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Weight != ranked[j].Weight {
			return ranked[i].Weight > ranked[j].Weight
		}
		return ranked[i].URL < ranked[j].URL
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
