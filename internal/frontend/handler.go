package frontend

import (
	"context"
	"errors"

	"buildstatus/internal/protocol"
)

// Handler receives decoded stream messages in order.
type Handler interface {
	TotalEdges(ctx context.Context, msg protocol.TotalEdges) error
	BuildStarted(ctx context.Context, msg protocol.BuildStarted) error
	BuildFinished(ctx context.Context, msg protocol.BuildFinished) error
	EdgeStarted(ctx context.Context, msg protocol.EdgeStarted) error
	// EdgeFinished receives the finish together with the matching start.
	EdgeFinished(ctx context.Context, started protocol.EdgeStarted, finished protocol.EdgeFinished) error
	Log(ctx context.Context, msg protocol.Log) error
	// Unknown receives messages of kinds this build does not understand.
	// Their fields have already been skipped.
	Unknown(ctx context.Context, msg protocol.Unknown) error
}

// NopHandler ignores every message. Embed it to implement only part of
// Handler.
type NopHandler struct{}

func (NopHandler) TotalEdges(context.Context, protocol.TotalEdges) error       { return nil }
func (NopHandler) BuildStarted(context.Context, protocol.BuildStarted) error   { return nil }
func (NopHandler) BuildFinished(context.Context, protocol.BuildFinished) error { return nil }
func (NopHandler) EdgeStarted(context.Context, protocol.EdgeStarted) error     { return nil }
func (NopHandler) Log(context.Context, protocol.Log) error                     { return nil }
func (NopHandler) Unknown(context.Context, protocol.Unknown) error             { return nil }

func (NopHandler) EdgeFinished(context.Context, protocol.EdgeStarted, protocol.EdgeFinished) error {
	return nil
}

type tee []Handler

// Tee returns a Handler that passes each message to every handler in turn.
// All handlers see every message; their errors are joined.
func Tee(handlers ...Handler) Handler {
	return tee(handlers)
}

func (t tee) each(fn func(Handler) error) error {
	var errs []error
	for _, h := range t {
		if err := fn(h); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t tee) TotalEdges(ctx context.Context, msg protocol.TotalEdges) error {
	return t.each(func(h Handler) error { return h.TotalEdges(ctx, msg) })
}

func (t tee) BuildStarted(ctx context.Context, msg protocol.BuildStarted) error {
	return t.each(func(h Handler) error { return h.BuildStarted(ctx, msg) })
}

func (t tee) BuildFinished(ctx context.Context, msg protocol.BuildFinished) error {
	return t.each(func(h Handler) error { return h.BuildFinished(ctx, msg) })
}

func (t tee) EdgeStarted(ctx context.Context, msg protocol.EdgeStarted) error {
	return t.each(func(h Handler) error { return h.EdgeStarted(ctx, msg) })
}

func (t tee) EdgeFinished(ctx context.Context, started protocol.EdgeStarted, finished protocol.EdgeFinished) error {
	return t.each(func(h Handler) error { return h.EdgeFinished(ctx, started, finished) })
}

func (t tee) Log(ctx context.Context, msg protocol.Log) error {
	return t.each(func(h Handler) error { return h.Log(ctx, msg) })
}

func (t tee) Unknown(ctx context.Context, msg protocol.Unknown) error {
	return t.each(func(h Handler) error { return h.Unknown(ctx, msg) })
}
