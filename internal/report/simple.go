package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/venuecrawl/internal/model"
)

// SimpleWriter outputs human-readable text reports for the terminal.
type SimpleWriter struct {
	baseWriter

	// verbose adds timing details to the run report.
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

const separator = "================================================================"

// WriteRun outputs the run report in human-readable format.
func (w *SimpleWriter) WriteRun(report *model.RunReport) (int, error) {
	var sb strings.Builder

	sb.WriteString(separator + "\n")
	sb.WriteString("VENUECRAWL RUN REPORT\n")
	sb.WriteString(separator + "\n\n")

	fmt.Fprintf(&sb, "Site:      %s\n", report.BaseURL)
	fmt.Fprintf(&sb, "Status:    %s\n", runStatus(report))
	if w.verbose {
		fmt.Fprintf(&sb, "Started:   %s\n", report.StartedAt.Format(time.RFC3339))
		fmt.Fprintf(&sb, "Finished:  %s\n", report.FinishedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&sb, "Duration:  %s\n\n", report.Duration().Round(time.Millisecond))

	sb.WriteString("Frontier\n")
	sb.WriteString("--------\n")
	fmt.Fprintf(&sb, "  Regions:  %d known, %d discovered\n", report.RegionsKnown, report.RegionsDiscovered)
	fmt.Fprintf(&sb, "  Cities:   %d known, %d discovered\n", report.CitiesKnown, report.CitiesDiscovered)
	fmt.Fprintf(&sb, "  Venues:   %d found\n\n", report.VenuesFound)

	sb.WriteString("Stored\n")
	sb.WriteString("------\n")
	fmt.Fprintf(&sb, "  Venues:         %d\n", report.VenuesSaved)
	fmt.Fprintf(&sb, "  Comment pages:  %d\n", report.CommentPages)
	fmt.Fprintf(&sb, "  Comments:       %d\n", report.CommentsSaved)
	fmt.Fprintf(&sb, "  Replies:        %d\n", report.RepliesSaved)
	fmt.Fprintf(&sb, "  Requests:       %d\n", report.Requests)

	return io.WriteString(w.output, sb.String())
}

// WriteSummary outputs the store summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary *model.StoreSummary) (int, error) {
	var sb strings.Builder

	sb.WriteString(separator + "\n")
	sb.WriteString("VENUECRAWL STORE SUMMARY\n")
	sb.WriteString(separator + "\n\n")

	fmt.Fprintf(&sb, "Database:        %s\n", summary.Path)
	fmt.Fprintf(&sb, "Regions:         %d\n", summary.Regions)
	fmt.Fprintf(&sb, "Cities:          %d\n", summary.Cities)
	fmt.Fprintf(&sb, "Venues:          %d\n", summary.Venues)
	fmt.Fprintf(&sb, "Comments:        %d (%d replies)\n", summary.Comments, summary.Replies)
	fmt.Fprintf(&sb, "Average rating:  %.2f\n", summary.AverageRating)

	if len(summary.TopVenues) > 0 {
		sb.WriteString("\nMost discussed venues\n")
		sb.WriteString("---------------------\n")
		for i, v := range summary.TopVenues {
			fmt.Fprintf(&sb, "  %2d. %-40s %4d comments  rating %.0f\n",
				i+1, truncateString(v.Title, 40), v.Comments, v.Rating)
		}
	}

	return io.WriteString(w.output, sb.String())
}

func runStatus(report *model.RunReport) string {
	if report.Succeeded() {
		return "complete"
	}
	return "failed: " + report.Error
}
