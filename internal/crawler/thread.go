package crawler

import (
	"context"

	"github.com/nao1215/venuecrawl/internal/extract"
	"github.com/nao1215/venuecrawl/internal/model"
)

// persistThread stores one page of comments in document order.
//
// Replies are attached to the most recently stored root of the same page;
// a reply before any root gets no parent. Nesting deeper than one level is
// flattened onto that root. Each comment is keyed by page and its position
// on the page. It returns the number of roots and replies written.
func persistThread(ctx context.Context, store RecordStore, venueID int64, page int, parsed []extract.ParsedComment) (roots, replies int, err error) {
	var lastRoot *int64

	for i, pc := range parsed {
		comment := model.Comment{
			VenueID:   venueID,
			Text:      pc.Text,
			Author:    pc.Author,
			Score:     pc.Score,
			Timestamp: pc.Timestamp,
			Page:      page,
			Position:  i,
		}
		if pc.IsReply {
			comment.ParentID = lastRoot
		}

		id, err := store.UpsertComment(ctx, &comment)
		if err != nil {
			return roots, replies, err
		}

		if pc.IsReply {
			replies++
			continue
		}
		roots++
		lastRoot = &id
	}

	return roots, replies, nil
}
