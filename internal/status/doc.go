// Package status reports build progress through a single lifecycle
// interface with two implementations.
//
// Stream serializes every lifecycle call into the binary protocol and feeds
// it to a frontend subprocess over a pipe, one flushed message per call.
// Printer renders the same calls as ninja-style progress lines on a
// terminal, driven by a user supplied format string (NINJA_STATUS) and a
// LinePrinter that knows how to overwrite a single status line.
//
// Both are used from the one goroutine that drives the build. Neither type
// does any locking.
package status
