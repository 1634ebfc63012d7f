package graph

import "errors"

// ErrNodeNotFound is returned when an edge operation references a URL that
// has not been added as a node. Edges may only connect existing nodes, so
// callers must add both endpoints before wiring them together.
var ErrNodeNotFound = errors.New("graph: node not found")
