package report

import (
	"io"

	"github.com/nao1215/venuecrawl/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// WriteRun outputs the report of a single crawl run.
	// Returns the number of bytes written and any error encountered.
	WriteRun(report *model.RunReport) (int, error)

	// WriteSummary outputs the store summary.
	WriteSummary(summary *model.StoreSummary) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteRun outputs the run report to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteRun(report *model.RunReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteRun(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSummary outputs the store summary to all configured Writers.
func (m *MultiWriter) WriteSummary(summary *model.StoreSummary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
