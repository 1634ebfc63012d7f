// Package crawler builds a weighted link graph from a website.
//
// # Architecture
//
// The Spider walks a site depth-first starting from a root URL, fetching
// each page at most once. Every successfully fetched page becomes a graph
// node carrying the page's extracted text; every observation of a same-site
// link becomes (or bumps the weight of) a directed edge.
//
// Fetching and HTML handling are injected through the Fetcher and Extractor
// interfaces, so the traversal logic is testable without a network and the
// HTTP/HTML machinery lives in its own packages.
//
// # Traversal
//
// The walk is sequential and uses an explicit frame stack rather than
// recursion, so crawl depth is bounded by heap, not goroutine stack. A page
// counts as visited once it is a node in the graph; that check is what stops
// cycles. Pages whose fetch failed never become nodes, never receive edges,
// and are retried if another page links to them later.
//
// # Follow policy
//
// Only hrefs written as site-root-relative paths ("/about", "/posts/1") are
// followed and recorded. Absolute URLs to other hosts and the bare "/" are
// ignored entirely: no recursion, no edge.
package crawler
