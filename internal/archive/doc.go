// Package archive provides SQLite-based storage for crawl history.
//
// Each recorded crawl stores its root URL, timing, and the full graph: one
// row per page (URL and text content) and one row per weighted link. Unlike
// the node-link JSON round trip, the archive keeps edge weights — they are
// stored and read back as plain data.
//
// Design decision: We use modernc.org/sqlite (pure Go) rather than a cgo
// driver because:
//  1. No C toolchain needed for builds
//  2. A single-file database fits the "one tool, local history" use case
//  3. WAL mode gives safe concurrent reads while a crawl is being recorded
package archive
