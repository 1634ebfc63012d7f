// Package fetcher provides the HTTP page fetcher used by the crawler.
//
// A fetch either yields the raw response body or an error. Network failures
// and non-2xx responses are both reported as errors so the crawler can treat
// "could not get this page" uniformly: the failing branch is abandoned and
// the crawl continues elsewhere.
package fetcher
