package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"buildstatus/internal/build"
)

// timeLayout keeps a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrUnknownBuild reports a build id with no row in the builds table.
var ErrUnknownBuild = errors.New("history: unknown build")

// BuildRecord is one stored build session.
type BuildRecord struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Parallelism int       `json:"parallelism"`
	Verbose     bool      `json:"verbose"`
	Finished    bool      `json:"finished"`
	Edges       int       `json:"edges"`
	Failed      int       `json:"failed"`
}

// EdgeRecord is one stored finished edge.
type EdgeRecord struct {
	BuildID     string   `json:"build_id"`
	EdgeID      uint64   `json:"edge_id"`
	Description string   `json:"description"`
	Command     string   `json:"command"`
	Outputs     []string `json:"outputs"`
	StartMillis int64    `json:"start_ms"`
	EndMillis   int64    `json:"end_ms"`
	ExitStatus  int64    `json:"exit_status"`
}

// Duration is how long the edge ran.
func (e EdgeRecord) Duration() time.Duration {
	return time.Duration(e.EndMillis-e.StartMillis) * time.Millisecond
}

// Label is the description, or the command when there is none.
func (e EdgeRecord) Label() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Command
}

// BeginBuild stores a new build session and returns its id. An empty id
// is replaced by a fresh UUID.
func (s *Store) BeginBuild(ctx context.Context, id string, cfg build.Config, startedAt time.Time) (string, error) {
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	_, err := s.exec(ctx,
		`INSERT INTO builds (id, started_at, parallelism, verbose) VALUES (?, ?, ?, ?)`,
		id, startedAt.UTC().Format(timeLayout), cfg.Parallelism, boolToInt(cfg.Verbosity == build.Verbose),
	)
	if err != nil {
		return "", fmt.Errorf("insert build %s: %w", id, err)
	}
	return id, nil
}

// RecordEdge stores a finished edge. Recording the same edge twice
// replaces the earlier row.
func (s *Store) RecordEdge(ctx context.Context, rec EdgeRecord) error {
	outputs := rec.Outputs
	if outputs == nil {
		outputs = []string{}
	}
	encoded, err := json.Marshal(outputs)
	if err != nil {
		return fmt.Errorf("encode outputs: %w", err)
	}
	_, err = s.exec(ctx,
		`INSERT OR REPLACE INTO edges
			(build_id, edge_id, description, command, outputs, start_ms, end_ms, exit_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.BuildID, int64(rec.EdgeID), rec.Description, rec.Command, string(encoded),
		rec.StartMillis, rec.EndMillis, rec.ExitStatus,
	)
	if err != nil {
		return fmt.Errorf("insert edge %d: %w", rec.EdgeID, err)
	}
	return nil
}

// FinishBuild marks a build session as complete.
func (s *Store) FinishBuild(ctx context.Context, id string, finishedAt time.Time) error {
	res, err := s.exec(ctx,
		`UPDATE builds SET finished = 1, finished_at = ? WHERE id = ?`,
		finishedAt.UTC().Format(timeLayout), id,
	)
	if err != nil {
		return fmt.Errorf("finish build %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownBuild, id)
	}
	return nil
}

// RecentBuilds returns up to limit builds, newest first.
func (s *Store) RecentBuilds(ctx context.Context, limit int) ([]BuildRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.started_at, COALESCE(b.finished_at, ''), b.parallelism, b.verbose, b.finished,
		       COUNT(e.edge_id), COALESCE(SUM(CASE WHEN e.exit_status != 0 THEN 1 ELSE 0 END), 0)
		FROM builds b LEFT JOIN edges e ON e.build_id = b.id
		GROUP BY b.id
		ORDER BY b.started_at DESC
		LIMIT ?`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var builds []BuildRecord
	for rows.Next() {
		var (
			rec                 BuildRecord
			started, finishedAt string
			verbose, finished   int
		)
		if err := rows.Scan(&rec.ID, &started, &finishedAt, &rec.Parallelism, &verbose, &finished, &rec.Edges, &rec.Failed); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		rec.StartedAt = parseTime(started)
		rec.FinishedAt = parseTime(finishedAt)
		rec.Verbose = verbose != 0
		rec.Finished = finished != 0
		builds = append(builds, rec)
	}
	return builds, rows.Err()
}

// RecentEdges returns up to limit edges of the newest build, in the order
// they finished.
func (s *Store) RecentEdges(ctx context.Context, limit int) ([]EdgeRecord, error) {
	var buildID string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM builds ORDER BY started_at DESC LIMIT 1`).Scan(&buildID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest build: %w", err)
	}
	return s.queryEdges(ctx,
		`WHERE build_id = ? ORDER BY end_ms, edge_id LIMIT ?`, buildID, normalizeLimit(limit))
}

// SlowestEdges returns up to limit edges across all builds, longest first.
func (s *Store) SlowestEdges(ctx context.Context, limit int) ([]EdgeRecord, error) {
	return s.queryEdges(ctx,
		`ORDER BY end_ms - start_ms DESC, edge_id LIMIT ?`, normalizeLimit(limit))
}

func (s *Store) queryEdges(ctx context.Context, clause string, args ...any) ([]EdgeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT build_id, edge_id, description, command, outputs, start_ms, end_ms, exit_status FROM edges `+clause,
		args...)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()

	var edges []EdgeRecord
	for rows.Next() {
		var (
			rec     EdgeRecord
			edgeID  int64
			outputs string
		)
		if err := rows.Scan(&rec.BuildID, &edgeID, &rec.Description, &rec.Command, &outputs,
			&rec.StartMillis, &rec.EndMillis, &rec.ExitStatus); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		rec.EdgeID = uint64(edgeID)
		if err := json.Unmarshal([]byte(outputs), &rec.Outputs); err != nil {
			return nil, fmt.Errorf("decode outputs of edge %d: %w", edgeID, err)
		}
		edges = append(edges, rec)
	}
	return edges, rows.Err()
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	return limit
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
