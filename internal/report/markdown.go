package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/topsites/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the grid report in Markdown format.
func (w *MarkdownWriter) Write(report *model.GridReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeGrid(md, report)
	w.writeProvenance(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with generation metadata.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.GridReport) {
	md.H1("Top Sites Grid")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Slots", strconv.Itoa(len(report.Grid)) + " of " + strconv.Itoa(report.GridSize)},
			{"Dropped Locations", strconv.Itoa(report.DroppedLocations)},
		},
	})
	md.PlainText("")
}

// writeGrid writes the slot table.
func (w *MarkdownWriter) writeGrid(md *markdown.Markdown, report *model.GridReport) {
	md.H2("Grid")
	md.PlainText("")

	if len(report.Grid) == 0 {
		md.PlainText("The grid is empty.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Grid))
	for i, r := range report.Grid {
		title := r.Title
		if title == "" {
			title = "-"
		}
		bookmarked := "no"
		if r.Bookmarked {
			bookmarked = "yes"
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			"`" + r.Location + "`",
			title,
			string(r.Source),
			strconv.FormatInt(r.Count, 10),
			bookmarked,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Slot", "Location", "Title", "Source", "Visits", "Bookmarked"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeProvenance writes the provenance breakdown with a pie chart.
func (w *MarkdownWriter) writeProvenance(md *markdown.Markdown, report *model.GridReport) {
	md.H2("Slot Provenance")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Source", "Count"},
		Rows: [][]string{
			{"Pinned", strconv.Itoa(report.PinnedCount)},
			{"Ranked", strconv.Itoa(report.RankedCount)},
			{"Catalog", strconv.Itoa(report.CatalogCount)},
		},
	})
	md.PlainText("")

	if len(report.Grid) > 0 {
		w.writePieChart(md, report)
	}
}

// writePieChart writes a mermaid pie chart of the provenance breakdown.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.GridReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Slot Provenance"),
		piechart.WithShowData(true),
	)

	if report.PinnedCount > 0 {
		chart.LabelAndIntValue("Pinned", uint64(report.PinnedCount))
	}
	if report.RankedCount > 0 {
		chart.LabelAndIntValue("Ranked", uint64(report.RankedCount))
	}
	if report.CatalogCount > 0 {
		chart.LabelAndIntValue("Catalog", uint64(report.CatalogCount))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}
