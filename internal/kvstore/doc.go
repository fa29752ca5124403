// Package kvstore provides the string key-value persistence the scan history
// is written through. Backends:
//   - File: one file per key under a directory, written via temp file and
//     rename, with an advisory lockfile for cross-process coordination
//   - SQLite: a single kv table in an embedded database (modernc.org/sqlite)
//   - Memory: process-local map, used by tests and --ephemeral runs
//
// A Set either replaces the whole value or leaves the previous one in place;
// readers never observe a partially written value.
package kvstore
