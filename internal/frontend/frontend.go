package frontend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"buildstatus/internal/logging"
	"buildstatus/internal/protocol"
)

// ErrUnknownEdge reports an EdgeFinished whose id was never started, or
// was already finished.
var ErrUnknownEdge = errors.New("frontend: finish for unknown edge")

// Frontend drives a Handler from a status stream.
type Frontend struct {
	reader  *protocol.Reader
	handler Handler
	logger  *slog.Logger
	running map[uint64]protocol.EdgeStarted
}

// New returns a Frontend reading the stream from r. A nil logger selects
// the one carried by the context passed to Run.
func New(r io.Reader, handler Handler, logger *slog.Logger) *Frontend {
	if handler == nil {
		handler = NopHandler{}
	}
	f := &Frontend{
		reader:  protocol.NewReader(r),
		handler: handler,
		running: make(map[uint64]protocol.EdgeStarted),
	}
	if logger != nil {
		f.logger = logging.NewComponentLogger(logger, "frontend")
	}
	return f
}

// Run reads the stream to its end. A stream that ends cleanly returns nil;
// a malformed stream, a handler failure or a cancelled ctx stops the loop
// and is returned.
func (f *Frontend) Run(ctx context.Context) error {
	if f.logger == nil {
		f.logger = logging.NewComponentLogger(logging.FromContext(ctx), "frontend")
	}
	if err := f.reader.ReadHeader(); err != nil {
		return fmt.Errorf("read status stream: %w", err)
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg, err := f.reader.Next()
		if errors.Is(err, io.EOF) {
			if n := len(f.running); n > 0 {
				f.logger.Warn("status stream ended with edges still running", logging.Int("running", n))
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("read status stream: %w", err)
		}
		if err := f.dispatch(ctx, msg); err != nil {
			return err
		}
	}
}

// Running returns the number of edges started but not yet finished.
func (f *Frontend) Running() int {
	return len(f.running)
}

func (f *Frontend) dispatch(ctx context.Context, msg protocol.Message) error {
	switch m := msg.(type) {
	case protocol.TotalEdges:
		return f.handler.TotalEdges(ctx, m)
	case protocol.BuildStarted:
		return f.handler.BuildStarted(ctx, m)
	case protocol.BuildFinished:
		return f.handler.BuildFinished(ctx, m)
	case protocol.EdgeStarted:
		if _, dup := f.running[m.ID]; dup {
			f.logger.Warn("edge started twice", logging.EdgeID(m.ID))
		}
		f.running[m.ID] = m
		return f.handler.EdgeStarted(ctx, m)
	case protocol.EdgeFinished:
		started, ok := f.running[m.ID]
		if !ok {
			return fmt.Errorf("%w: id %d", ErrUnknownEdge, m.ID)
		}
		delete(f.running, m.ID)
		return f.handler.EdgeFinished(ctx, started, m)
	case protocol.Log:
		return f.handler.Log(ctx, m)
	case protocol.Unknown:
		f.logger.Debug("skipping unknown message",
			logging.String(logging.FieldKind, m.Type.String()),
			logging.Int("fields", m.Fields),
		)
		return f.handler.Unknown(ctx, m)
	default:
		return fmt.Errorf("frontend: unhandled message %T", msg)
	}
}
