// Package nodelink serializes link graphs to and from node-link JSON
// documents.
//
// The document lists nodes and links as two parallel arrays, each link
// referencing nodes by their URL identifier:
//
//	{ "nodes": [ {"id": "<url>", "text_content": "<string>"}, ... ],
//	  "links": [ {"source": "<url>", "target": "<url>", "weight": <int>}, ... ] }
//
// Saving preserves node text and edge weights exactly. Loading restores
// nodes with their text but recreates edges with a plain add, so every
// reloaded edge has weight 1 regardless of what the document said. That
// asymmetry is deliberate and callers needing weights back should keep the
// document itself (or use the crawl archive, which stores weights as data).
package nodelink
