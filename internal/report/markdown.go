package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/venuecrawl/internal/model"
)

// MarkdownWriter outputs reports in Markdown format for sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteRun outputs the run report in Markdown format.
func (w *MarkdownWriter) WriteRun(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("venuecrawl Run Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + report.BaseURL + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration().Round(time.Millisecond).String()},
			{"Requests", strconv.Itoa(report.Requests)},
		},
	})
	md.PlainText("")

	if report.Succeeded() {
		md.Tip("Crawl completed.")
	} else {
		md.Cautionf("Crawl aborted: %s", report.Error)
	}
	md.PlainText("")

	md.H2("Frontier")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Tier", "Known", "Discovered"},
		Rows: [][]string{
			{"Regions", strconv.Itoa(report.RegionsKnown), strconv.Itoa(report.RegionsDiscovered)},
			{"Cities", strconv.Itoa(report.CitiesKnown), strconv.Itoa(report.CitiesDiscovered)},
			{"Venues", "-", strconv.Itoa(report.VenuesFound)},
		},
	})
	md.PlainText("")

	md.H2("Stored Records")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Record", "Count"},
		Rows: [][]string{
			{"Venues", strconv.Itoa(report.VenuesSaved)},
			{"Comment pages", strconv.Itoa(report.CommentPages)},
			{"Comments", strconv.Itoa(report.CommentsSaved)},
			{"Replies", strconv.Itoa(report.RepliesSaved)},
		},
	})
	md.PlainText("")

	if report.CommentsSaved+report.RepliesSaved > 0 {
		w.writeCommentChart(md, report.CommentsSaved, report.RepliesSaved)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteSummary outputs the store summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.StoreSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("venuecrawl Store Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Database", "`" + summary.Path + "`"},
			{"Regions", strconv.Itoa(summary.Regions)},
			{"Cities", strconv.Itoa(summary.Cities)},
			{"Venues", strconv.Itoa(summary.Venues)},
			{"Comments", strconv.Itoa(summary.Comments)},
			{"Replies", strconv.Itoa(summary.Replies)},
			{"Average rating", fmt.Sprintf("%.2f", summary.AverageRating)},
		},
	})
	md.PlainText("")

	if summary.Venues == 0 {
		md.Note("The store holds no venues yet. Run `venuecrawl crawl` first.")
		md.PlainText("")
	}

	if len(summary.TopVenues) > 0 {
		md.H2("Most Discussed Venues")
		md.PlainText("")

		rows := make([][]string, len(summary.TopVenues))
		for i, v := range summary.TopVenues {
			rows[i] = []string{
				strconv.Itoa(i + 1),
				truncateString(v.Title, 50),
				v.Author,
				strconv.FormatFloat(v.Rating, 'f', 0, 64),
				strconv.Itoa(v.Comments),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"#", "Venue", "Author", "Rating", "Comments"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if summary.Comments > 0 {
		w.writeCommentChart(md, summary.Comments-summary.Replies, summary.Replies)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeCommentChart writes a mermaid pie chart of roots against replies.
func (w *MarkdownWriter) writeCommentChart(md *markdown.Markdown, roots, replies int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Comment Threads"),
		piechart.WithShowData(true),
	)

	if roots > 0 {
		chart.LabelAndIntValue("Root comments", uint64(roots))
	}
	if replies > 0 {
		chart.LabelAndIntValue("Replies", uint64(replies))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by venuecrawl at %s*", time.Now().UTC().Format(time.RFC3339))
}
