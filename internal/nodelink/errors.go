package nodelink

import "errors"

var (
	// ErrDocumentNotFound is returned by Load when the document path does
	// not exist.
	ErrDocumentNotFound = errors.New("node-link document not found")

	// ErrMalformedDocument is returned when the document is not valid JSON
	// or is missing required fields (a node without an id, a link without a
	// source or target, or a link referencing an unknown node).
	ErrMalformedDocument = errors.New("malformed node-link document")
)
