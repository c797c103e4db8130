package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/venuecrawl/internal/model"
)

// createTestRun creates a finished run report with sample data.
func createTestRun(err error) *model.RunReport {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &model.RunReport{
		BaseURL:           "https://example.com",
		StartedAt:         start,
		FinishedAt:        start.Add(90 * time.Second),
		RegionsKnown:      0,
		RegionsDiscovered: 16,
		CitiesKnown:       0,
		CitiesDiscovered:  120,
		VenuesFound:       42,
		VenuesSaved:       42,
		CommentPages:      17,
		CommentsSaved:     60,
		RepliesSaved:      25,
		Requests:          196,
		Error:             errString(err),
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// createTestSummary creates a store summary with sample data.
func createTestSummary() *model.StoreSummary {
	return &model.StoreSummary{
		Path:          "/tmp/venuecrawl.db",
		Regions:       16,
		Cities:        120,
		Venues:        42,
		Comments:      85,
		Replies:       25,
		AverageRating: 3.75,
		TopVenues: []model.VenueStat{
			{ID: 1, Title: "Kawiarnia Pod Lipą", Author: "Ola", Rating: 4, Comments: 30},
			{ID: 2, Title: "Bar Mleczny", Author: "Jan", Rating: 3, Comments: 12},
		},
	}
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("run report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).WriteRun(createTestRun(nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		output := buf.String()
		for _, want := range []string{"VENUECRAWL RUN REPORT", "https://example.com", "complete", "1m30s", "Replies:        25"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if strings.Contains(output, "Started:") {
			t.Error("non-verbose output contains start time")
		}
	})

	t.Run("failed run in verbose mode", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).WriteRun(createTestRun(errors.New("boom"))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "failed: boom") {
			t.Error("expected failure status")
		}
		if !strings.Contains(output, "Started:   2024-03-01T10:00:00Z") {
			t.Error("expected start time in verbose output")
		}
	})

	t.Run("store summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteSummary(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"VENUECRAWL STORE SUMMARY", "85 (25 replies)", "3.75", "Most discussed venues", "Bar Mleczny"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("run report carries derived fields", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteRun(createTestRun(nil)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded["succeeded"] != true {
			t.Errorf("succeeded = %v", decoded["succeeded"])
		}
		if decoded["duration_seconds"] != 90.0 {
			t.Errorf("duration_seconds = %v", decoded["duration_seconds"])
		}
		if decoded["venues_saved"] != 42.0 {
			t.Errorf("venues_saved = %v", decoded["venues_saved"])
		}
		if _, ok := decoded["error"]; ok {
			t.Error("successful run has an error field")
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteSummary(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"regions\": 16") {
			t.Errorf("expected indented output, got %s", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("run report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteRun(createTestRun(nil)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"# venuecrawl Run Report", "## Frontier", "| Cities", "```mermaid", "Root comments"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("aborted run shows caution", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteRun(createTestRun(errors.New("missing required field"))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Crawl aborted: missing required field") {
			t.Error("expected abort message")
		}
	})

	t.Run("store summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteSummary(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"# venuecrawl Store Summary", "## Most Discussed Venues", "Kawiarnia Pod Lipą"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("empty store shows a note", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteSummary(&model.StoreSummary{Path: "x.db"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "no venues yet") {
			t.Error("expected empty-store note")
		}
	})
}

// TestMultiWriter tests fan-out to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	m := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

	n, err := m.WriteSummary(createTestSummary())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("total = %d, want %d", n, text.Len()+js.Len())
	}
	if !strings.Contains(text.String(), "STORE SUMMARY") || !json.Valid(js.Bytes()) {
		t.Error("writers did not both receive the summary")
	}

	text.Reset()
	js.Reset()
	if _, err := m.WriteRun(createTestRun(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("writers did not both receive the run report")
	}
}

// TestTruncateString tests rune-aware truncation.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	if got := truncateString("Łódź Kaliska", 7); got != "Łódź..." {
		t.Errorf("truncateString = %q", got)
	}
	if got := truncateString("short", 10); got != "short" {
		t.Errorf("truncateString = %q", got)
	}
	if got := truncateString("abcdef", 2); got != "ab" {
		t.Errorf("truncateString = %q", got)
	}
}
