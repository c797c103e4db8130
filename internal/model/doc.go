// Package model defines the data structures shared by the crawler,
// the store and the report writers.
//
// This package contains the following main types:
//   - DiscoveredURL: a region or city URL kept in the frontier table
//   - Venue: a venue record extracted from a venue page
//   - Comment: a comment or reply attached to a venue
//   - Frontier: the accumulated region, city and venue URL sets of a run
//   - RunReport: counters and timings for a single crawl run
//   - StoreSummary: totals read back from the store
//
// The models carry JSON tags so the report writers can serialize them
// directly.
package model
