package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/topsites/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the grid report in human-readable format.
func (w *SimpleWriter) Write(report *model.GridReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeGrid(&sb, report)
	w.writeSummary(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.GridReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          TOP SITES GRID\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Slots:     %d of %d\n", len(report.Grid), report.GridSize))
	sb.WriteString("\n")
}

// writeGrid writes one line per placed slot.
func (w *SimpleWriter) writeGrid(sb *strings.Builder, report *model.GridReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("GRID\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Grid) == 0 {
		sb.WriteString("  (empty)\n\n")
		return
	}

	for i, r := range report.Grid {
		marker := " "
		if r.Bookmarked {
			marker = "*"
		}
		title := r.Title
		if title == "" {
			title = "-"
		}
		sb.WriteString(fmt.Sprintf("  %2d. [%s]%s %s\n", i+1, sourceIndicator(r.Source), marker, r.Location))
		if w.verbose {
			sb.WriteString(fmt.Sprintf("      title=%s count=%d\n", title, r.Count))
		}
	}
	sb.WriteString("\n")
}

// writeSummary writes the provenance summary and drop accounting.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.GridReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  PINNED:  %d\n", report.PinnedCount))
	sb.WriteString(fmt.Sprintf("  RANKED:  %d\n", report.RankedCount))
	sb.WriteString(fmt.Sprintf("  CATALOG: %d\n", report.CatalogCount))
	if report.DroppedLocations > 0 {
		sb.WriteString(fmt.Sprintf("  DROPPED: %d unparseable location(s)\n", report.DroppedLocations))
	}
	sb.WriteString("\n")
}

// sourceIndicator returns a one-letter marker for slot provenance.
func sourceIndicator(source model.SlotSource) string {
	switch source {
	case model.SourcePinned:
		return "P"
	case model.SourceCatalog:
		return "C"
	case model.SourceRanked:
		return "R"
	default:
		return "?"
	}
}
