// Package report renders human-readable summaries of a crawled link graph.
//
// A Summary is computed once from a graph (counts, most linked pages, pages
// with the most outgoing links) and then handed to a Writer. The Markdown
// writer is the only implementation today; the interface exists so other
// formats can be added without touching the summary logic.
package report
