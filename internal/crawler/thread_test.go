package crawler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nao1215/venuecrawl/internal/extract"
	"github.com/nao1215/venuecrawl/internal/model"
)

// memoryRecords is an in-memory RecordStore.
type memoryRecords struct {
	venues   []model.Venue
	comments []model.Comment
	failAt   int
}

func (m *memoryRecords) UpsertVenue(_ context.Context, v *model.Venue) (int64, error) {
	m.venues = append(m.venues, *v)
	return int64(len(m.venues)), nil
}

func (m *memoryRecords) UpsertComment(_ context.Context, c *model.Comment) (int64, error) {
	if m.failAt > 0 && len(m.comments)+1 == m.failAt {
		return 0, errors.New("constraint failed")
	}
	m.comments = append(m.comments, *c)
	return int64(len(m.comments)) * 10, nil
}

func parsed(kinds string) []extract.ParsedComment {
	out := make([]extract.ParsedComment, 0, len(kinds))
	for i, k := range kinds {
		out = append(out, extract.ParsedComment{
			IsReply:   k == 'r',
			Author:    "a",
			Score:     "0",
			Text:      string(k),
			Timestamp: time.Unix(int64(i), 0),
		})
	}
	return out
}

func parentOf(c model.Comment) int64 {
	if c.ParentID == nil {
		return 0
	}
	return *c.ParentID
}

// TestPersistThread tests parent assignment from the rolling root.
func TestPersistThread(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		kinds       string
		wantParents []int64
		wantRoots   int
		wantReplies int
	}{
		{
			name:        "alternating roots and replies",
			kinds:       "RrRr",
			wantParents: []int64{0, 10, 0, 30},
			wantRoots:   2,
			wantReplies: 2,
		},
		{
			name:        "several replies share one root",
			kinds:       "Rrrr",
			wantParents: []int64{0, 10, 10, 10},
			wantRoots:   1,
			wantReplies: 3,
		},
		{
			name:        "reply before any root has no parent",
			kinds:       "rR",
			wantParents: []int64{0, 0},
			wantRoots:   1,
			wantReplies: 1,
		},
		{
			name:        "empty page",
			kinds:       "",
			wantParents: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &memoryRecords{}
			roots, replies, err := persistThread(context.Background(), store, 1, 3, parsed(tt.kinds))
			if err != nil {
				t.Fatalf("persistThread failed: %v", err)
			}
			if roots != tt.wantRoots || replies != tt.wantReplies {
				t.Errorf("roots, replies = %d, %d, want %d, %d", roots, replies, tt.wantRoots, tt.wantReplies)
			}
			if len(store.comments) != len(tt.wantParents) {
				t.Fatalf("stored %d comments, want %d", len(store.comments), len(tt.wantParents))
			}
			for i, c := range store.comments {
				if got := parentOf(c); got != tt.wantParents[i] {
					t.Errorf("comment %d parent = %d, want %d", i, got, tt.wantParents[i])
				}
				if c.VenueID != 1 {
					t.Errorf("comment %d venue = %d", i, c.VenueID)
				}
				if c.Page != 3 || c.Position != i {
					t.Errorf("comment %d page, position = %d, %d, want 3, %d", i, c.Page, c.Position, i)
				}
			}
		})
	}
}

// TestPersistThreadError tests that a failed write stops the page.
func TestPersistThreadError(t *testing.T) {
	t.Parallel()

	store := &memoryRecords{failAt: 2}
	roots, _, err := persistThread(context.Background(), store, 1, 1, parsed("RrR"))
	if err == nil {
		t.Fatal("expected error")
	}
	if roots != 1 || len(store.comments) != 1 {
		t.Errorf("roots = %d, stored = %d", roots, len(store.comments))
	}
}

// TestCommentPageURL tests comment page addressing.
func TestCommentPageURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		venue string
		index int
		want  string
	}{
		{"https://example.com/miejsce/pod-lipa/", 1, "https://example.com/miejsce/pod-lipa/strona/1"},
		{" https://example.com/miejsce/pod-lipa/ ", 2, "https://example.com/miejsce/pod-lipa/strona/2"},
		{"https://example.com/miejsce/pod-lipa", 3, "https://example.com/miejsce/pod-lipa/strona/3"},
	}

	for _, tt := range tests {
		if got := commentPageURL(tt.venue, tt.index); got != tt.want {
			t.Errorf("commentPageURL(%q, %d) = %q, want %q", tt.venue, tt.index, got, tt.want)
		}
	}
}
