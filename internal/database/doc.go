// Package database provides SQLite-based storage for venuecrawl.
//
// The Store keeps three tables:
//   - urls: region and city URLs discovered by the crawler (the frontier)
//   - venues: venue records keyed by title and coordinates
//   - comments: comments and replies owned by a venue
//
// Every write is an individual upsert. Re-running a crawl replaces rows in
// place and keeps their generated ids, so the store never holds duplicates
// and a partially finished run leaves everything it wrote behind.
//
// The database is opened through modernc.org/sqlite, so no cgo toolchain is
// required.
package database
