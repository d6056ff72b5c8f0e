// Package logtail reads the tail of the diagnostics log for the in-app
// viewer.
//
// # Overview
//
// rentdesk writes zap JSON entries to a file (see package diag). This
// package reads the last N lines of that file and turns each JSON entry
// back into something a person can scan:
//
//	{"level":"warn","ts":"...","msg":"api request failed","path":"/films/top","status":500}
//	→ 2025-10-08 21:01:05 WARN  api request failed path=/films/top status=500
//
// # Reading Log Files
//
// Read keeps a ring buffer of maxLines entries, so memory is O(maxLines)
// regardless of file size. A non-positive maxLines returns the whole file.
// A missing file is not an error; the logger may not have written yet.
//
// # Parsing
//
// Parse understands the keys diag writes (ts, level, msg, caller) and
// keeps every other key as a Field, sorted by key. Lines that are not JSON
// (a panic trace, say) survive as a bare message.
//
// AtLeast filters by minimum level; the viewer cycles through it.
package logtail
