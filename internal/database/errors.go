package database

import "errors"

var (
	// ErrDatabaseNotFound is returned by Open when the file is missing and
	// creation was not requested.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrInvalidURLType is returned when a URL carries an unknown type tag.
	ErrInvalidURLType = errors.New("invalid URL type")

	// ErrEmptyURL is returned when an empty URL is upserted.
	ErrEmptyURL = errors.New("empty URL")

	// ErrVenueNotFound is returned when a venue id has no row.
	ErrVenueNotFound = errors.New("venue not found")
)
