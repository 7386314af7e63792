// Package main provides the entry point for the topsites CLI.
//
// topsites maintains a local browsing-history store and computes the
// ranked "top sites" grid shown on a new-tab page: most visited sites
// first, user pins fixed to their slots, one slot per domain, and a
// curated catalog padding sparse grids.
//
// Usage:
//
//	topsites record <url>
//	topsites rank
//	topsites watch
//
// See --help for all available options.
package main

// main is the entry point for topsites.
func main() {
	Execute()
}
