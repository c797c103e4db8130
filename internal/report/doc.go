// Package report renders crawl results.
//
// Two documents are produced:
//   - the run report, printed after "venuecrawl crawl"
//   - the store summary, printed by "venuecrawl report"
//
// Each is available as plain text (SimpleWriter), JSON (JSONWriter) and
// Markdown (MarkdownWriter). MultiWriter fans one document out to several
// writers, for example the terminal and a file.
package report
