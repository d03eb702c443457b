package trace

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"buildstatus/internal/build"
)

// ErrInvalid reports a trace that parsed but cannot be replayed.
var ErrInvalid = errors.New("trace: invalid")

// Trace is a recorded build.
type Trace struct {
	Parallelism int       `yaml:"parallelism"`
	Verbose     bool      `yaml:"verbose"`
	TotalEdges  int       `yaml:"total_edges"`
	Messages    []Message `yaml:"messages"`
	Edges       []Edge    `yaml:"edges"`
}

// Message is a log line emitted during the build.
type Message struct {
	Level    string `yaml:"level"`
	Text     string `yaml:"text"`
	AtMillis int64  `yaml:"at_ms"`
}

// Edge is one recorded build step.
type Edge struct {
	ID          uint64   `yaml:"id"`
	Inputs      []string `yaml:"inputs"`
	Outputs     []string `yaml:"outputs"`
	Description string   `yaml:"description"`
	Command     string   `yaml:"command"`
	UseConsole  bool     `yaml:"use_console"`
	StartMillis int64    `yaml:"start_ms"`
	EndMillis   int64    `yaml:"end_ms"`
	ExitStatus  int      `yaml:"exit_status"`
	Output      string   `yaml:"output"`
}

// Load reads and validates the trace at path.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	tr, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tr, nil
}

// Parse decodes and validates a YAML trace. Unknown keys are rejected.
func Parse(data []byte) (*Trace, error) {
	var tr Trace
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tr); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse trace: %w", err)
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	return &tr, nil
}

// Validate checks that the trace can be replayed and fills defaults: a
// parallelism of 1 and a total equal to the number of edges.
func (tr *Trace) Validate() error {
	if tr.Parallelism < 0 {
		return fmt.Errorf("%w: parallelism %d is negative", ErrInvalid, tr.Parallelism)
	}
	if tr.Parallelism == 0 {
		tr.Parallelism = 1
	}
	if tr.TotalEdges < 0 {
		return fmt.Errorf("%w: total_edges %d is negative", ErrInvalid, tr.TotalEdges)
	}
	if tr.TotalEdges == 0 {
		tr.TotalEdges = len(tr.Edges)
	}

	seen := make(map[uint64]struct{}, len(tr.Edges))
	for i, edge := range tr.Edges {
		if _, dup := seen[edge.ID]; dup {
			return fmt.Errorf("%w: edge %d: duplicate id %d", ErrInvalid, i, edge.ID)
		}
		seen[edge.ID] = struct{}{}
		if edge.StartMillis < 0 {
			return fmt.Errorf("%w: edge %d: start_ms %d is negative", ErrInvalid, edge.ID, edge.StartMillis)
		}
		if edge.EndMillis < edge.StartMillis {
			return fmt.Errorf("%w: edge %d: end_ms %d before start_ms %d", ErrInvalid, edge.ID, edge.EndMillis, edge.StartMillis)
		}
	}
	for i := range tr.Messages {
		msg := &tr.Messages[i]
		msg.Level = strings.ToLower(strings.TrimSpace(msg.Level))
		switch msg.Level {
		case "":
			msg.Level = "info"
		case "info", "warning", "error":
		default:
			return fmt.Errorf("%w: message %d: unknown level %q", ErrInvalid, i, msg.Level)
		}
		if msg.AtMillis < 0 {
			return fmt.Errorf("%w: message %d: at_ms %d is negative", ErrInvalid, i, msg.AtMillis)
		}
	}
	return nil
}

// Config returns the build configuration the trace was recorded with.
func (tr *Trace) Config() build.Config {
	cfg := build.Config{Parallelism: tr.Parallelism}
	if tr.Verbose {
		cfg.Verbosity = build.Verbose
	}
	return cfg
}
