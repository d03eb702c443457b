// Package logging builds the slog loggers used by buildstatus.
//
// Logs go to stderr by default so they never interleave with status lines
// on stdout. Two formats are available: a compact console format for people
// and JSON for machines. A session id, when set, is stamped on every record
// so the log of one build can be matched to its history rows.
package logging
