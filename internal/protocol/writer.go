package protocol

import (
	"fmt"
	"io"

	"buildstatus/internal/msgpack"
)

// Writer encodes messages onto a stream, one flush per message.
//
// A flush may block when the consumer is slow to drain a pipe. That is the
// intended backpressure; Writer keeps no queue of its own.
type Writer struct {
	enc *msgpack.Encoder
}

// NewWriter returns a Writer encoding to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: msgpack.NewEncoder(w)}
}

// WriteHeader writes the stream magic. It must be the first value written.
func (w *Writer) WriteHeader() error {
	w.enc.Uint(Header)
	return w.enc.Flush()
}

// Write encodes msg and flushes it to the stream.
func (w *Writer) Write(msg Message) error {
	if err := w.encode(msg); err != nil {
		return err
	}
	return w.enc.Flush()
}

func (w *Writer) encode(msg Message) error {
	e := w.enc
	switch m := msg.(type) {
	case TotalEdges:
		e.Array(fieldCount(KindTotalEdges))
		e.Uint(uint64(KindTotalEdges))
		e.Uint(m.Total)
	case BuildStarted:
		e.Array(fieldCount(KindBuildStarted))
		e.Uint(uint64(KindBuildStarted))
		e.Uint(m.Parallelism)
		e.Bool(m.Verbose)
	case BuildFinished:
		e.Array(fieldCount(KindBuildFinished))
		e.Uint(uint64(KindBuildFinished))
	case EdgeStarted:
		e.Array(fieldCount(KindEdgeStarted))
		e.Uint(uint64(KindEdgeStarted))
		e.Uint(m.ID)
		e.Uint(m.StartMillis)
		e.StringArray(m.Inputs)
		e.StringArray(m.Outputs)
		e.String(m.Description)
		e.String(m.Command)
		e.Bool(m.UseConsole)
	case EdgeFinished:
		e.Array(fieldCount(KindEdgeFinished))
		e.Uint(uint64(KindEdgeFinished))
		e.Uint(m.ID)
		e.Uint(m.EndMillis)
		e.Int(m.ExitStatus)
		e.String(m.Output)
	case Log:
		switch m.Level {
		case KindInfo, KindWarning, KindError:
		default:
			return fmt.Errorf("encode log message: level %s is not a log kind", m.Level)
		}
		e.Array(fieldCount(m.Level))
		e.Uint(uint64(m.Level))
		e.String(m.Text)
	default:
		return fmt.Errorf("encode message: unsupported type %T", msg)
	}
	return nil
}
