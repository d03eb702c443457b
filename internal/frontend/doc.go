// Package frontend consumes a status stream.
//
// Frontend reads the header, then decodes messages until the stream ends
// and hands each one to a Handler. It pairs every EdgeFinished with the
// EdgeStarted that opened it, so handlers see the full edge on completion.
// NativeHandler turns the stream back into ninja's own console output;
// RecordingHandler stores finished edges in the history database; Tee runs
// several handlers on the same stream.
package frontend
