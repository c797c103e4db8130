package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/venuecrawl/internal/model"
)

// FileName is the database file created inside the database directory.
const FileName = "venuecrawl.db"

// Store provides SQLite-based storage for the frontier and the extracted
// records.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Store in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, ErrDatabaseNotFound is returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, FileName)

	mode := "rw"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		mode = "rwc"
	} else {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	}

	// Foreign keys are a per-connection setting in SQLite, so they go in the DSN.
	dsn := dbPath + "?mode=" + mode + "&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Discovered region and city URLs
	CREATE TABLE IF NOT EXISTS urls (
		url_id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		created TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_urls_type ON urls(type);

	-- Venues, one row per title and location
	CREATE TABLE IF NOT EXISTS venues (
		venue_id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		lat TEXT NOT NULL,
		lng TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date_added TEXT NOT NULL,
		author TEXT NOT NULL,
		rating REAL NOT NULL DEFAULT 0,
		url TEXT NOT NULL DEFAULT '',
		UNIQUE(title, lat, lng)
	);

	-- Comments belong to a venue; replies point at a root comment
	CREATE TABLE IF NOT EXISTS comments (
		comment_id INTEGER PRIMARY KEY AUTOINCREMENT,
		venue_id INTEGER NOT NULL REFERENCES venues(venue_id) ON DELETE CASCADE,
		parent_id INTEGER REFERENCES comments(comment_id) ON DELETE SET NULL,
		text TEXT NOT NULL,
		author TEXT NOT NULL,
		score TEXT NOT NULL DEFAULT '0',
		timestamp TEXT NOT NULL,
		page INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL DEFAULT 0,
		UNIQUE(venue_id, page, position)
	);

	CREATE INDEX IF NOT EXISTS idx_comments_venue ON comments(venue_id);
	CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments(parent_id);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// ListURLs returns the URLs of the given type in discovery order.
func (s *Store) ListURLs(ctx context.Context, urlType model.URLType) ([]string, error) {
	if !urlType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURLType, urlType)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT url FROM urls WHERE type = ? ORDER BY url_id`, urlType.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list %s urls: %w", urlType, err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		urls = append(urls, u)
	}

	return urls, rows.Err()
}

// UpsertURL stores a discovered URL. A URL that already exists, under any
// type, is left untouched.
func (s *Store) UpsertURL(ctx context.Context, du *model.DiscoveredURL) error {
	if du.URL == "" {
		return ErrEmptyURL
	}
	if !du.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidURLType, du.Type)
	}

	created := du.Created
	if created.IsZero() {
		created = time.Now()
	}

	query := `
	INSERT INTO urls (type, url, created)
	VALUES (?, ?, ?)
	ON CONFLICT(url) DO NOTHING
	`

	if _, err := s.db.ExecContext(ctx, query, du.Type.String(), du.URL, formatTimestamp(created)); err != nil {
		return fmt.Errorf("failed to upsert url %s: %w", du.URL, err)
	}
	return nil
}

// UpsertVenue inserts a venue or replaces the fields of the venue with the
// same title and location. It returns the row id, which does not change on
// replacement.
func (s *Store) UpsertVenue(ctx context.Context, v *model.Venue) (int64, error) {
	query := `
	INSERT INTO venues (title, lat, lng, description, date_added, author, rating, url)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(title, lat, lng) DO UPDATE SET
		description = excluded.description,
		date_added = excluded.date_added,
		author = excluded.author,
		rating = excluded.rating,
		url = excluded.url
	RETURNING venue_id
	`

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		v.Title,
		v.Location.Lat,
		v.Location.Lng,
		v.Description,
		formatTimestamp(v.DateAdded),
		v.Author,
		v.Rating,
		v.URL,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert venue %q: %w", v.Title, err)
	}

	v.ID = id
	return id, nil
}

// UpsertComment inserts a comment or replaces the comment stored at the same
// venue, page and position. Comments with equal text, author and timestamp
// at different positions are separate rows. It returns the row id.
func (s *Store) UpsertComment(ctx context.Context, c *model.Comment) (int64, error) {
	query := `
	INSERT INTO comments (venue_id, parent_id, text, author, score, timestamp, page, position)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(venue_id, page, position) DO UPDATE SET
		parent_id = excluded.parent_id,
		text = excluded.text,
		author = excluded.author,
		score = excluded.score,
		timestamp = excluded.timestamp
	RETURNING comment_id
	`

	var parent sql.NullInt64
	if c.ParentID != nil {
		parent = sql.NullInt64{Int64: *c.ParentID, Valid: true}
	}

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		c.VenueID,
		parent,
		c.Text,
		c.Author,
		c.Score,
		formatTimestamp(c.Timestamp),
		c.Page,
		c.Position,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert comment for venue %d: %w", c.VenueID, err)
	}

	c.ID = id
	return id, nil
}

// GetVenue retrieves a venue by id.
func (s *Store) GetVenue(ctx context.Context, id int64) (*model.Venue, error) {
	query := `
	SELECT venue_id, title, lat, lng, description, date_added, author, rating, url
	FROM venues
	WHERE venue_id = ?
	`

	var (
		v         model.Venue
		dateAdded string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID,
		&v.Title,
		&v.Location.Lat,
		&v.Location.Lng,
		&v.Description,
		&dateAdded,
		&v.Author,
		&v.Rating,
		&v.URL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrVenueNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}

	v.DateAdded = parseTimestamp(dateAdded)
	return &v, nil
}

// ListVenues returns all venues in insertion order.
func (s *Store) ListVenues(ctx context.Context) ([]model.Venue, error) {
	query := `
	SELECT venue_id, title, lat, lng, description, date_added, author, rating, url
	FROM venues
	ORDER BY venue_id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	defer rows.Close()

	var venues []model.Venue
	for rows.Next() {
		var (
			v         model.Venue
			dateAdded string
		)
		if err := rows.Scan(&v.ID, &v.Title, &v.Location.Lat, &v.Location.Lng,
			&v.Description, &dateAdded, &v.Author, &v.Rating, &v.URL); err != nil {
			return nil, fmt.Errorf("failed to scan venue: %w", err)
		}
		v.DateAdded = parseTimestamp(dateAdded)
		venues = append(venues, v)
	}

	return venues, rows.Err()
}

// ListComments returns the comments of a venue in insertion order.
func (s *Store) ListComments(ctx context.Context, venueID int64) ([]model.Comment, error) {
	query := `
	SELECT comment_id, venue_id, parent_id, text, author, score, timestamp, page, position
	FROM comments
	WHERE venue_id = ?
	ORDER BY comment_id
	`

	rows, err := s.db.QueryContext(ctx, query, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var (
			c         model.Comment
			parent    sql.NullInt64
			timestamp string
		)
		if err := rows.Scan(&c.ID, &c.VenueID, &parent, &c.Text, &c.Author, &c.Score, &timestamp,
			&c.Page, &c.Position); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if parent.Valid {
			id := parent.Int64
			c.ParentID = &id
		}
		c.Timestamp = parseTimestamp(timestamp)
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

// DeleteVenue removes a venue and, through the foreign key, its comments.
func (s *Store) DeleteVenue(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM venues WHERE venue_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrVenueNotFound, id)
	}
	return nil
}
