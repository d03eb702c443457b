// Package protocol defines the build status message catalog and the
// Writer/Reader pair that put it on, and take it off, a byte stream.
//
// A stream starts with a single unsigned Header value. Every following
// message is an array whose first element is a Kind discriminant and whose
// remaining elements are the fields for that kind, in a fixed order. There
// is no outer framing: the array header is the only delimiter, and the
// stream ends when the pipe closes. BuildFinished is a hint, not a
// terminator.
//
// Readers tolerate messages that carry more fields than they know about and
// surface unknown kinds as Unknown so newer producers can talk to older
// consumers.
package protocol
