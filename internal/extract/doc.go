// Package extract turns fetched pages of the venue directory into links and
// records.
//
// Pages are parsed with golang.org/x/net/html and queried through goquery.
// Every selector lives in Selectors so a changed site layout can be handled
// from the configuration file instead of a rebuild.
//
// Page types:
//   - home page: region links
//   - region page: city links
//   - city listing: venue links
//   - venue page: the venue record, its page count and its first comments
//   - comment page: comments in document order with their reply flag
package extract
