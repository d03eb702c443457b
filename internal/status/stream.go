package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"buildstatus/internal/build"
	"buildstatus/internal/logging"
	"buildstatus/internal/protocol"
)

// noResultExitStatus is sent for an edge finished without a result, which
// counts as a failure.
const noResultExitStatus = -1

// Stream publishes lifecycle events to a frontend as protocol messages.
//
// Each call writes and flushes exactly one message, in call order. A write
// blocks while the pipe is full. If the frontend goes away the first write
// failure is logged and kept; later events are dropped and Close reports
// the failure.
type Stream struct {
	cfg    build.Config
	writer *protocol.Writer
	pipe   io.WriteCloser
	cmd    *exec.Cmd
	logger *slog.Logger
	err    error
}

// NewStream launches cfg.Frontend through the shell with its standard input
// bound to a fresh pipe and writes the stream header. A nil logger selects
// the one carried by ctx. Failing to create
// the pipe, start the frontend or write the header is returned as an error;
// callers treat it as fatal.
func NewStream(ctx context.Context, cfg build.Config, logger *slog.Logger) (*Stream, error) {
	if strings.TrimSpace(cfg.Frontend) == "" {
		return nil, errors.New("status stream: frontend command is required")
	}
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	readEnd, writeEnd, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("status stream: pipe: %w", err)
	}

	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", cfg.Frontend)
	cmd.Stdin = readEnd
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		_ = readEnd.Close()
		_ = writeEnd.Close()
		return nil, fmt.Errorf("status stream: start frontend %q: %w", cfg.Frontend, err)
	}
	// The child holds its own copy of the read end.
	_ = readEnd.Close()

	s := &Stream{
		cfg:    cfg,
		writer: protocol.NewWriter(writeEnd),
		pipe:   writeEnd,
		cmd:    cmd,
		logger: logger.With(logging.String(logging.FieldComponent, "status_stream")),
	}
	s.logger.Debug("frontend started",
		logging.String("command", cfg.Frontend),
		logging.Int("pid", cmd.Process.Pid),
	)
	if err := s.writer.WriteHeader(); err != nil {
		_ = writeEnd.Close()
		_ = cmd.Wait()
		return nil, fmt.Errorf("status stream: write header: %w", err)
	}
	return s, nil
}

// NewStreamWriter returns a Stream that encodes to w instead of a frontend
// subprocess. The header is written immediately.
func NewStreamWriter(w io.Writer, cfg build.Config) (*Stream, error) {
	s := &Stream{
		cfg:    cfg,
		writer: protocol.NewWriter(w),
		logger: logging.NewNop(),
	}
	if err := s.writer.WriteHeader(); err != nil {
		return nil, fmt.Errorf("status stream: write header: %w", err)
	}
	return s, nil
}

// SetLogger replaces the logger used for delivery failures.
func (s *Stream) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// PlanHasTotalEdges sends a TotalEdges message.
func (s *Stream) PlanHasTotalEdges(total int) {
	s.send(protocol.TotalEdges{Total: clampUint(int64(total))})
}

// BuildStarted sends the build's parallelism and whether it is verbose.
func (s *Stream) BuildStarted() {
	s.send(protocol.BuildStarted{
		Parallelism: clampUint(int64(s.cfg.Parallelism)),
		Verbose:     s.cfg.Verbosity == build.Verbose,
	})
}

// BuildEdgeStarted sends an EdgeStarted message. Negative times are sent as 0.
func (s *Stream) BuildEdgeStarted(edge *build.Edge, startMillis int64) {
	s.send(protocol.EdgeStarted{
		ID:          edge.ID,
		StartMillis: clampUint(startMillis),
		Inputs:      edge.Inputs,
		Outputs:     edge.Outputs,
		Description: edge.Description,
		Command:     edge.Command,
		UseConsole:  edge.UseConsole,
	})
}

// BuildEdgeFinished sends an EdgeFinished message. A nil result is sent
// with exit status -1.
func (s *Stream) BuildEdgeFinished(edge *build.Edge, endMillis int64, result *build.Result) {
	msg := protocol.EdgeFinished{ID: edge.ID, EndMillis: clampUint(endMillis), ExitStatus: noResultExitStatus}
	if result != nil {
		msg.ExitStatus = int64(result.ExitStatus)
		msg.Output = result.Output
	}
	s.send(msg)
}

// BuildFinished sends a BuildFinished message.
func (s *Stream) BuildFinished() {
	s.send(protocol.BuildFinished{})
}

// Info sends an info log message.
func (s *Stream) Info(message string) {
	s.send(protocol.Log{Level: protocol.KindInfo, Text: message})
}

// Warning sends a warning log message.
func (s *Stream) Warning(message string) {
	s.send(protocol.Log{Level: protocol.KindWarning, Text: message})
}

// Error sends an error log message.
func (s *Stream) Error(message string) {
	s.send(protocol.Log{Level: protocol.KindError, Text: message})
}

// Err returns the first delivery failure, if any.
func (s *Stream) Err() error {
	return s.err
}

// Close ends the stream: it closes the write end of the pipe, which the
// frontend sees as end of input, and waits for the frontend to exit.
func (s *Stream) Close() error {
	errs := []error{s.err}
	if s.pipe != nil {
		if err := s.pipe.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close status pipe: %w", err))
		}
		s.pipe = nil
	}
	if s.cmd != nil {
		if err := s.cmd.Wait(); err != nil {
			errs = append(errs, fmt.Errorf("frontend %q: %w", s.cfg.Frontend, err))
		}
		s.cmd = nil
	}
	return errors.Join(errs...)
}

func (s *Stream) send(msg protocol.Message) {
	if s.err != nil {
		return
	}
	if err := s.writer.Write(msg); err != nil {
		s.err = fmt.Errorf("write %s message: %w", msg.Kind(), err)
		s.logger.Warn("status frontend stopped accepting messages",
			logging.String("kind", msg.Kind().String()),
			logging.Error(err),
		)
	}
}

func clampUint(v int64) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}
