// Package extractor turns raw HTML bytes into the two things the crawler
// needs: the page's plain text and the ordered list of hyperlink hrefs.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. Document order of anchors falls naturally out of the DOM walk
//  3. Standard library extension, well-maintained
//
// The extractor never fails on valid bytes: unparseable fragments simply
// yield empty results. Fetch-level failures are the fetcher's concern.
package extractor
