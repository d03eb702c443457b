package protocol

import "fmt"

// Header is the magic value that opens every stream ("NJS1").
const Header uint64 = 0x4e4a5331

// Kind is the discriminant leading each message.
type Kind uint64

const (
	KindTotalEdges    Kind = 0
	KindBuildStarted  Kind = 1
	KindBuildFinished Kind = 2
	KindEdgeStarted   Kind = 3
	KindEdgeFinished  Kind = 4
	KindInfo          Kind = 5
	KindWarning       Kind = 6
	KindError         Kind = 7
)

func (k Kind) String() string {
	switch k {
	case KindTotalEdges:
		return "total_edges"
	case KindBuildStarted:
		return "build_started"
	case KindBuildFinished:
		return "build_finished"
	case KindEdgeStarted:
		return "edge_started"
	case KindEdgeFinished:
		return "edge_finished"
	case KindInfo:
		return "info"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", uint64(k))
	}
}

// fieldCount is the array length a message of the given kind is written
// with, discriminant included.
func fieldCount(k Kind) int {
	switch k {
	case KindTotalEdges:
		return 2
	case KindBuildStarted:
		return 3
	case KindBuildFinished:
		return 1
	case KindEdgeStarted:
		return 8
	case KindEdgeFinished:
		return 5
	case KindInfo, KindWarning, KindError:
		return 2
	default:
		return 1
	}
}

// Message is implemented by every decoded or encodable message.
type Message interface {
	Kind() Kind
}

// TotalEdges announces the number of edges the plan intends to run. It may
// be sent more than once as the plan grows.
type TotalEdges struct {
	Total uint64
}

// BuildStarted opens a build.
type BuildStarted struct {
	Parallelism uint64
	Verbose     bool
}

// BuildFinished closes a build.
type BuildFinished struct{}

// EdgeStarted reports that an edge's command began running.
type EdgeStarted struct {
	ID          uint64
	StartMillis uint64
	Inputs      []string
	Outputs     []string
	Description string
	Command     string
	UseConsole  bool
}

// EdgeFinished reports that an edge's command exited.
type EdgeFinished struct {
	ID         uint64
	EndMillis  uint64
	ExitStatus int64
	Output     string
}

// Log carries an already formatted info, warning or error line.
type Log struct {
	Level Kind
	Text  string
}

// Unknown is returned by Reader for kinds it does not recognise. Its
// fields have been consumed and discarded.
type Unknown struct {
	Type   Kind
	Fields int
}

func (TotalEdges) Kind() Kind    { return KindTotalEdges }
func (BuildStarted) Kind() Kind  { return KindBuildStarted }
func (BuildFinished) Kind() Kind { return KindBuildFinished }
func (EdgeStarted) Kind() Kind   { return KindEdgeStarted }
func (EdgeFinished) Kind() Kind  { return KindEdgeFinished }
func (m Log) Kind() Kind         { return m.Level }
func (m Unknown) Kind() Kind     { return m.Type }
