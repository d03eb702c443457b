package build

import (
	"fmt"
	"strings"
)

// Edge is one build step as reported to status consumers.
type Edge struct {
	ID          uint64
	Inputs      []string
	Outputs     []string
	Description string
	Command     string
	// UseConsole marks an edge that owns the terminal while it runs.
	UseConsole bool
}

// Result is the outcome of running an edge's command.
type Result struct {
	ExitStatus int
	Output     string
}

// Success reports whether the command exited cleanly.
func (r *Result) Success() bool {
	return r != nil && r.ExitStatus == 0
}

// Verbosity controls how much the status layer prints.
type Verbosity int

const (
	Normal Verbosity = iota
	Quiet
	Verbose
)

// ParseVerbosity maps a configuration value onto a Verbosity.
func ParseVerbosity(value string) (Verbosity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "normal":
		return Normal, nil
	case "quiet":
		return Quiet, nil
	case "verbose":
		return Verbose, nil
	default:
		return Normal, fmt.Errorf("verbosity: unsupported value %q", value)
	}
}

func (v Verbosity) String() string {
	switch v {
	case Quiet:
		return "quiet"
	case Verbose:
		return "verbose"
	default:
		return "normal"
	}
}

// Config describes the build run as seen by status consumers.
type Config struct {
	Parallelism int
	Verbosity   Verbosity
	// Frontend is a shell command that receives the binary status stream
	// on its standard input. Empty selects the text printer.
	Frontend string
}
