// Package main provides the entry point for the venuecrawl CLI.
//
// venuecrawl walks a regional venue directory from its home page down to
// individual venues and stores venues and their comment threads in SQLite.
//
// Usage:
//
//	venuecrawl crawl
//	venuecrawl report
//
// See --help for all available options.
package main

func main() {
	Execute()
}
