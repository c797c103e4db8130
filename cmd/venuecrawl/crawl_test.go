package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nao1215/venuecrawl/internal/config"
	"github.com/nao1215/venuecrawl/internal/database"
	"github.com/nao1215/venuecrawl/internal/fetch"
)

// directorySite serves a two-region directory with one venue.
type directorySite struct {
	mu      sync.Mutex
	pages   map[string]string
	cookies []string
}

func newDirectorySite() *directorySite {
	return &directorySite{
		pages: map[string]string{
			"/": `<ul>
				<li class="list-group-item-prov"><a href="/r1/">Region 1</a></li>
				<li class="list-group-item-prov"><a href="/r2/">Region 2</a></li>
			</ul>`,
			"/r1/":    `<a class="btn-city" href="/r1/c1/">City 1</a>`,
			"/r2/":    `<a class="btn-city" href="/r2/c2/">City 2</a>`,
			"/r1/c1/": `<table><tr><td class="cellname"><a href="/miejsce/v1/">Venue</a></td></tr></table>`,
			"/r2/c2/": `<table><tr><td class="cellname"><a href="/miejsce/v1/">Venue</a></td></tr></table>`,
			"/miejsce/v1/": `<article class="row">
				<h4>Pod Lipą</h4>
				<time class="text-light" datetime="2023-05-01T10:00:00Z"></time>
				<a class="userlink">Ola</a>
				<span property="v:average">4</span>
			</article>
			<aside><a href="https://maps.example.com/?query=52.2297,21.0122">map</a></aside>
			<ul class="pagination"><li class="page-item">1</li><li class="page-item">2</li><li class="page-item">next</li></ul>`,
			"/miejsce/v1/strona/1": `<section>
				<article class="cmt"><a class="userlink">Jan</a>
					<time datetime="2023-06-01T12:00:00Z"></time><p class="cmt-c">Root</p></article>
				<div class="ml-4"><article class="cmt"><span class="user">Ola</span>
					<time datetime="2023-06-02T12:00:00Z"></time><p class="cmt-c">Reply</p></article></div>
			</section>`,
		},
	}
}

func (s *directorySite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.cookies = append(s.cookies, r.Header.Get("Cookie"))
	page, ok := s.pages[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, "<html><body>"+page+"</body></html>")
}

func (s *directorySite) seenCookies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cookies...)
}

// writeTestConfig writes a config file with no politeness delays.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, config.DefaultConfigFile)
	content := `site:
  cookie: "PHPSESSID=abc"
delays:
  region: 0s
  city: 0s
  harvest: 0s
  venue: 0s
  comment_page: 0s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// executeRoot runs the root command with args and returns stdout, stderr and the error.
func executeRoot(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// TestCrawlAndReport crawls a fixture directory and summarizes the result.
func TestCrawlAndReport(t *testing.T) {
	site := newDirectorySite()
	server := httptest.NewServer(site)
	defer server.Close()

	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)
	reportPath := filepath.Join(dir, "reports", "run.json")

	stdout, stderr, err := executeRoot("crawl",
		"-c", cfgPath,
		"-u", server.URL,
		"--db-dir", dir,
		"--json",
		"-o", reportPath,
	)
	if err != nil {
		t.Fatalf("crawl failed: %v\nlogs: %s", err, stderr)
	}

	if !strings.Contains(stdout, "VENUECRAWL RUN REPORT") {
		t.Errorf("expected text report on stdout, got %s", stdout)
	}
	if !strings.Contains(stderr, "starting crawl") {
		t.Errorf("expected log output, got %s", stderr)
	}
	if strings.Contains(stderr, "PHPSESSID") {
		t.Error("cookie leaked into logs")
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report file missing: %v", err)
	}
	var run map[string]any
	if err := json.Unmarshal(data, &run); err != nil {
		t.Fatalf("invalid report JSON: %v", err)
	}
	for key, want := range map[string]float64{
		"regions_discovered": 2,
		"cities_discovered":  2,
		"venues_found":       1,
		"venues_saved":       1,
		"comments_saved":     1,
		"replies_saved":      1,
		"requests":           7,
	} {
		if run[key] != want {
			t.Errorf("%s = %v, want %v", key, run[key], want)
		}
	}

	for _, c := range site.seenCookies() {
		if c != "PHPSESSID=abc" {
			t.Errorf("request sent cookie %q", c)
		}
	}

	stdout, _, err = executeRoot("report", "--db-dir", dir, "--json")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	var summary map[string]any
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("invalid summary JSON: %v (%s)", err, stdout)
	}
	for key, want := range map[string]float64{
		"regions":  2,
		"cities":   2,
		"venues":   1,
		"comments": 2,
		"replies":  1,
	} {
		if summary[key] != want {
			t.Errorf("%s = %v, want %v", key, summary[key], want)
		}
	}
}

// TestCrawlFailure checks that a failed crawl still reports and returns the cause.
func TestCrawlFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	dir := t.TempDir()
	stdout, _, err := executeRoot("crawl",
		"-c", writeTestConfig(t, dir),
		"-u", server.URL,
		"--db-dir", dir,
	)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, fetch.ErrUnexpectedStatus) {
		t.Errorf("expected ErrUnexpectedStatus, got %v", err)
	}
	if !strings.Contains(err.Error(), "crawl failed") {
		t.Errorf("unexpected error text: %v", err)
	}
	if !strings.Contains(stdout, "Status:    failed") {
		t.Errorf("expected failed run report, got %s", stdout)
	}
}

// TestCrawlConfigErrors checks flag validation before any request is made.
func TestCrawlConfigErrors(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name:    "json and markdown",
			args:    []string{"crawl", "-c", cfgPath, "--db-dir", dir, "--json", "--markdown"},
			wantErr: config.ErrConflictingReportFormats,
		},
		{
			name:    "negative rate",
			args:    []string{"crawl", "-c", cfgPath, "--db-dir", dir, "--rate", "-1"},
			wantErr: config.ErrInvalidRate,
		},
		{
			name:    "relative base url",
			args:    []string{"crawl", "-c", cfgPath, "--db-dir", dir, "-u", "/miasto"},
			wantErr: config.ErrNoBaseURL,
		},
		{
			name:    "missing config file",
			args:    []string{"crawl", "-c", filepath.Join(dir, "missing.yaml"), "--db-dir", dir},
			wantErr: config.ErrConfigNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeRoot(tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestReportMissingDatabase checks that report does not create a database.
func TestReportMissingDatabase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, _, err := executeRoot("report", "--db-dir", dir)
	if !errors.Is(err, database.ErrDatabaseNotFound) {
		t.Errorf("expected ErrDatabaseNotFound, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, database.FileName)); statErr == nil {
		t.Error("report created a database file")
	}
}
