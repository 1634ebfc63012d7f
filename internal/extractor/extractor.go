package extractor

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// skipElements are elements whose text content is not page text.
var skipElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// Extractor extracts plain text and hyperlink references from HTML content.
// The zero value is ready to use.
type Extractor struct{}

// New creates a new Extractor.
func New() *Extractor {
	return &Extractor{}
}

// ExtractText returns the visible text of the page, one text block per line.
//
// Whitespace inside a block is collapsed to single spaces and blank blocks
// are dropped. The result is NFC-normalized so the same page text compares
// equal regardless of how the source encoded its combining characters.
func (e *Extractor) ExtractText(content []byte) string {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		// html.Parse only fails on reader errors; a bytes.Reader has none.
		return ""
	}

	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
				blocks = append(blocks, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return norm.NFC.String(strings.Join(blocks, "\n"))
}

// ExtractLinks returns the href attribute of every <a> element, in document
// order. Values are returned raw (only surrounding whitespace trimmed) so
// the caller's follow policy sees the reference exactly as the page wrote
// it. Anchors without an href, or with an empty one, are skipped.
func (e *Extractor) ExtractLinks(content []byte) []string {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil
	}

	var hrefs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := strings.TrimSpace(getAttr(n, "href")); href != "" {
				hrefs = append(hrefs, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return hrefs
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
