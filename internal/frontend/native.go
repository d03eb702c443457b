package frontend

import (
	"context"

	"buildstatus/internal/build"
	"buildstatus/internal/protocol"
	"buildstatus/internal/status"
)

// Configurer exposes the build configuration a target runs with, so that
// BuildStarted can adjust it.
type Configurer interface {
	Config() build.Config
	Configure(cfg build.Config)
}

// NativeHandler replays the stream onto a status.Status, normally a
// status.Printer, so the frontend prints what ninja itself would print.
type NativeHandler struct {
	target status.Status
}

// NewNativeHandler returns a handler driving target.
func NewNativeHandler(target status.Status) *NativeHandler {
	return &NativeHandler{target: target}
}

func (h *NativeHandler) TotalEdges(_ context.Context, msg protocol.TotalEdges) error {
	h.target.PlanHasTotalEdges(int(msg.Total))
	return nil
}

func (h *NativeHandler) BuildStarted(_ context.Context, msg protocol.BuildStarted) error {
	// The wire only says whether the build is verbose; a locally quiet
	// printer stays quiet.
	if c, ok := h.target.(Configurer); ok {
		cfg := c.Config()
		cfg.Parallelism = int(msg.Parallelism)
		if msg.Verbose {
			cfg.Verbosity = build.Verbose
		}
		c.Configure(cfg)
	}
	h.target.BuildStarted()
	return nil
}

func (h *NativeHandler) BuildFinished(context.Context, protocol.BuildFinished) error {
	h.target.BuildFinished()
	return nil
}

func (h *NativeHandler) EdgeStarted(_ context.Context, msg protocol.EdgeStarted) error {
	h.target.BuildEdgeStarted(edgeOf(msg), int64(msg.StartMillis))
	return nil
}

func (h *NativeHandler) EdgeFinished(_ context.Context, started protocol.EdgeStarted, finished protocol.EdgeFinished) error {
	result := &build.Result{ExitStatus: int(finished.ExitStatus), Output: finished.Output}
	h.target.BuildEdgeFinished(edgeOf(started), int64(finished.EndMillis), result)
	return nil
}

func (h *NativeHandler) Log(_ context.Context, msg protocol.Log) error {
	switch msg.Level {
	case protocol.KindWarning:
		h.target.Warning(msg.Text)
	case protocol.KindError:
		h.target.Error(msg.Text)
	default:
		h.target.Info(msg.Text)
	}
	return nil
}

func edgeOf(msg protocol.EdgeStarted) *build.Edge {
	return &build.Edge{
		ID:          msg.ID,
		Inputs:      msg.Inputs,
		Outputs:     msg.Outputs,
		Description: msg.Description,
		Command:     msg.Command,
		UseConsole:  msg.UseConsole,
	}
}

// Unknown ignores the message; a newer producer may send kinds the printer
// has no rendering for.
func (h *NativeHandler) Unknown(context.Context, protocol.Unknown) error {
	return nil
}
