// Package config provides configuration structures and utilities for venuecrawl.
// It defines the crawl target, transport and politeness settings, report
// preferences, and the optional .venuecrawl YAML file.
package config
