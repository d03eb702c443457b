package frontend

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"buildstatus/internal/build"
	"buildstatus/internal/history"
	"buildstatus/internal/logging"
	"buildstatus/internal/protocol"
)

// EdgeRecorder is the part of history.Store the recorder needs.
type EdgeRecorder interface {
	BeginBuild(ctx context.Context, id string, cfg build.Config, startedAt time.Time) (string, error)
	RecordEdge(ctx context.Context, rec history.EdgeRecord) error
	FinishBuild(ctx context.Context, id string, finishedAt time.Time) error
}

// RecordingHandler stores every finished edge of the stream.
type RecordingHandler struct {
	NopHandler

	store     EdgeRecorder
	sessionID string
	buildID   string
	logger    *slog.Logger
	now       func() time.Time
}

// NewRecordingHandler returns a handler writing to store. sessionID becomes
// the build id; an empty one lets the store generate it.
func NewRecordingHandler(store EdgeRecorder, sessionID string, logger *slog.Logger) *RecordingHandler {
	return &RecordingHandler{
		store:     store,
		sessionID: sessionID,
		logger:    logging.NewComponentLogger(logger, "history"),
		now:       time.Now,
	}
}

// BuildID returns the id of the build being recorded, once it started.
func (h *RecordingHandler) BuildID() string {
	return h.buildID
}

func (h *RecordingHandler) BuildStarted(ctx context.Context, msg protocol.BuildStarted) error {
	cfg := build.Config{Parallelism: int(msg.Parallelism)}
	if msg.Verbose {
		cfg.Verbosity = build.Verbose
	}
	id, err := h.store.BeginBuild(ctx, h.sessionID, cfg, h.now())
	if err != nil {
		return err
	}
	h.buildID = id
	h.logger.Debug("recording build", logging.String("build_id", id))
	return nil
}

func (h *RecordingHandler) EdgeFinished(ctx context.Context, started protocol.EdgeStarted, finished protocol.EdgeFinished) error {
	if h.buildID == "" {
		return errors.New("history: edge finished before build started")
	}
	return h.store.RecordEdge(ctx, history.EdgeRecord{
		BuildID:     h.buildID,
		EdgeID:      started.ID,
		Description: started.Description,
		Command:     started.Command,
		Outputs:     started.Outputs,
		StartMillis: int64(started.StartMillis),
		EndMillis:   int64(finished.EndMillis),
		ExitStatus:  finished.ExitStatus,
	})
}

func (h *RecordingHandler) BuildFinished(ctx context.Context, _ protocol.BuildFinished) error {
	if h.buildID == "" {
		return nil
	}
	return h.store.FinishBuild(ctx, h.buildID, h.now())
}
