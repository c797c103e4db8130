// Package pipeline runs the crawl tiers in sequence.
//
// Each Step receives the Frontier built so far and returns the extended
// Frontier, so the accumulated URL sets flow explicitly from one tier to the
// next instead of living in shared state. The pipeline stops at the first
// failing step and checks for cancellation between steps.
package pipeline
