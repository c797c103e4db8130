package database

import (
	"context"
	"fmt"

	"github.com/nao1215/venuecrawl/internal/model"
)

// Summary reads the store totals and the topN venues with the most comments.
// A topN of zero or less skips the per-venue listing.
func (s *Store) Summary(ctx context.Context, topN int) (*model.StoreSummary, error) {
	query := `
	SELECT
		(SELECT COUNT(*) FROM urls WHERE type = ?),
		(SELECT COUNT(*) FROM urls WHERE type = ?),
		(SELECT COUNT(*) FROM venues),
		(SELECT COUNT(*) FROM comments),
		(SELECT COUNT(*) FROM comments WHERE parent_id IS NOT NULL),
		(SELECT COALESCE(AVG(rating), 0) FROM venues WHERE rating > 0)
	`

	summary := &model.StoreSummary{Path: s.dbPath}
	err := s.db.QueryRowContext(ctx, query,
		model.URLTypeRegion.String(),
		model.URLTypeCity.String(),
	).Scan(
		&summary.Regions,
		&summary.Cities,
		&summary.Venues,
		&summary.Comments,
		&summary.Replies,
		&summary.AverageRating,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary: %w", err)
	}

	if topN <= 0 {
		return summary, nil
	}

	top, err := s.topVenues(ctx, topN)
	if err != nil {
		return nil, err
	}
	summary.TopVenues = top

	return summary, nil
}

func (s *Store) topVenues(ctx context.Context, limit int) ([]model.VenueStat, error) {
	query := `
	SELECT v.venue_id, v.title, v.author, v.rating, COUNT(c.comment_id) AS n
	FROM venues v
	LEFT JOIN comments c ON c.venue_id = v.venue_id
	GROUP BY v.venue_id
	ORDER BY n DESC, v.venue_id ASC
	LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top venues: %w", err)
	}
	defer rows.Close()

	var stats []model.VenueStat
	for rows.Next() {
		var st model.VenueStat
		if err := rows.Scan(&st.ID, &st.Title, &st.Author, &st.Rating, &st.Comments); err != nil {
			return nil, fmt.Errorf("failed to scan venue stat: %w", err)
		}
		stats = append(stats, st)
	}

	return stats, rows.Err()
}
