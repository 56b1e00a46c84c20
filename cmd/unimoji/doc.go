// Package main hosts the unimoji CLI entrypoint and command graph.
//
// The Cobra-based command tree exposes emoji lookups, a foreground icon
// cache reconciliation, a line-oriented host loop that keeps the cache
// reconciling in the background while answering queries, dependency checks,
// and configuration scaffolding. Configuration resolution and logger setup
// live in the shared command context so subcommands stay small.
package main
