// Package crawler walks the venue directory tier by tier and stores what it
// finds.
//
// # Tiers
//
// A run loads the region and city URLs persisted by earlier runs and then
// executes four pipeline steps:
//
//   - regions: fetch the home page and store its region links, only when no
//     region is known yet
//   - cities: fetch every region page and store city links not seen before
//   - listings: pause once, then fetch every city listing and collect venue
//     links in memory
//   - venues: fetch every venue page, store the venue, then fetch and store
//     its additional comment pages
//
// # Failure model
//
// Every fetch, parse and write error aborts the run. Whatever was stored up
// to that point stays in the database, and the next run picks the frontier
// up from there.
//
// # Usage
//
//	c := crawler.New(baseURL, fetcher, store, extractor, crawler.WithLogger(logger))
//	report, err := c.Run(ctx)
package crawler
