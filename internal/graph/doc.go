// Package graph provides the in-memory directed link graph built during a
// crawl.
//
// Nodes are page URLs annotated with the text content extracted from the
// page. Edges are directed and weighted: the weight counts how many times a
// link from the source page to the target page was observed.
//
// Design decision: We implement our own graph type rather than using a
// general-purpose graph library because:
//  1. The model is tiny: string-keyed nodes, one int attribute per edge
//  2. We need insertion-ordered iteration so saved documents follow crawl
//     discovery order
//  3. The serializer depends on the exact node/edge shape, and a thin type
//     keeps that contract obvious
package graph
