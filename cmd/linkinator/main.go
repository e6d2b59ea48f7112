// Package main provides the entry point for the linkinator CLI.
//
// Linkinator crawls a website or a local directory, extracts every
// link-bearing reference from the HTML it finds, and verifies each one
// resolves to a live resource.
//
// Usage:
//
//	linkinator check <url-or-path>
//	linkinator check --recurse <url-or-path>
//
// See --help for all available options.
package main

// main is the entry point for linkinator.
func main() {
	Execute()
}
