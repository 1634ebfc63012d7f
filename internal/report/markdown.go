package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
)

// Writer renders a graph summary to some destination format.
type Writer interface {
	// Write renders the summary. It returns the number of bytes rendered
	// and any error encountered.
	Write(s *Summary) (int, error)
}

// MarkdownWriter renders summaries as GitHub-flavored Markdown.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. Output that renders well both on GitHub and in a pager
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that writes to output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write renders the summary as Markdown.
func (w *MarkdownWriter) Write(s *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Site Graph Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Root URL", "`" + s.RootURL + "`"},
			{"Pages", strconv.Itoa(s.NodeCount)},
			{"Links", strconv.Itoa(s.EdgeCount)},
			{"Link observations", strconv.Itoa(s.TotalWeight)},
		},
	})
	md.PlainText("")

	w.writeRanked(md, "Most Linked Pages", "Inbound links", s.MostLinked)
	w.writeRanked(md, "Pages With Most Outgoing Links", "Outbound links", s.MostLinking)

	return len(md.String()), md.Build()
}

// writeRanked writes one ranked page table, or a short note when empty.
func (w *MarkdownWriter) writeRanked(md *markdown.Markdown, title, linkHeader string, ranked []PageRank) {
	md.H2(title)
	md.PlainText("")

	if len(ranked) == 0 {
		md.PlainText("No links recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, []string{
			"`" + r.URL + "`",
			strconv.Itoa(r.Links),
			strconv.Itoa(r.Weight),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Page", linkHeader, "Total weight"},
		Rows:   rows,
	})
	md.PlainText("")
}
