// Package log provides the slog setup used across sitegraph.
//
// Crawl logging routinely carries page URLs and extracted text as
// attributes, and page text can run to hundreds of kilobytes. The handler
// here truncates oversized string attributes before they reach the
// underlying handler, so verbose logs stay readable and log files stay
// bounded.
package log
