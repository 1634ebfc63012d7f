// Package pipeline coordinates crawling several root URLs as one batch.
//
// Each crawl is strictly sequential inside, matching the single-site
// traversal semantics; the batch only parallelizes across independent roots.
// Results keep the input order, and one failing root does not stop the rest.
package pipeline
