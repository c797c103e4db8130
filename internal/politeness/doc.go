// Package politeness paces the crawler's requests.
//
// Every fetch is preceded by a random wait drawn from [0, max) where max is
// configured per crawl tier, and an optional token bucket from
// golang.org/x/time/rate caps the overall request rate on top of that.
package politeness
