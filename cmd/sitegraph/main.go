// Package main provides the entry point for the sitegraph CLI.
//
// Sitegraph crawls a website, follows its internal hyperlinks, and builds
// a weighted directed graph of the pages it finds. Graphs are written as
// node-link JSON documents and can optionally be archived in SQLite or
// summarized as Markdown reports.
//
// Usage:
//
//	sitegraph crawl <url>
//	sitegraph report <graph.json>
//
// See --help for all available options.
package main

// main is the entry point for sitegraph.
func main() {
	Execute()
}
