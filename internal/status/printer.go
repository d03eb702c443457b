package status

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"buildstatus/internal/build"
)

// Printer renders lifecycle events as human readable progress lines.
type Printer struct {
	cfg     build.Config
	printer *LinePrinter
	format  string

	startedEdges  int
	finishedEdges int
	totalEdges    int
	runningEdges  int
	timeMillis    int64

	currentRate *SlidingRate
}

// NewPrinter returns a Printer writing through lp. An empty format selects
// the value of NINJA_STATUS, or DefaultFormat when that is unset.
func NewPrinter(cfg build.Config, format string, lp *LinePrinter) *Printer {
	if format == "" {
		format = FormatFromEnv()
	}
	p := &Printer{printer: lp, format: format}
	p.Configure(cfg)
	return p
}

// Config returns the build configuration the Printer currently applies.
func (p *Printer) Config() build.Config {
	return p.cfg
}

// Configure applies a build configuration, as announced by a BuildStarted
// message when the Printer sits behind a frontend.
func (p *Printer) Configure(cfg build.Config) {
	p.cfg = cfg
	p.currentRate = NewSlidingRate(cfg.Parallelism)
	// Don't do anything fancy in verbose or quiet mode.
	if cfg.Verbosity != build.Normal {
		p.printer.SetSmartTerminal(false)
	}
}

// PlanHasTotalEdges sets the total reported by %t, %u and %p.
func (p *Printer) PlanHasTotalEdges(total int) {
	p.totalEdges = total
}

// BuildStarted resets the edge counters.
func (p *Printer) BuildStarted() {
	p.startedEdges = 0
	p.finishedEdges = 0
	p.runningEdges = 0
}

// BuildEdgeStarted counts the edge as running. The status line is printed
// now only on a smart terminal or for a console edge, which also takes the
// console lock.
func (p *Printer) BuildEdgeStarted(edge *build.Edge, startMillis int64) {
	p.startedEdges++
	p.runningEdges++
	p.timeMillis = startMillis

	if edge.UseConsole || p.printer.IsSmartTerminal() {
		p.printStatus(edge, startMillis)
	}
	if edge.UseConsole {
		p.printer.SetConsoleLocked(true)
	}
}

// BuildEdgeFinished prints the status line, then a FAILED banner with the
// command for a failing edge, then the captured output. Quiet mode prints
// nothing.
func (p *Printer) BuildEdgeFinished(edge *build.Edge, endMillis int64, result *build.Result) {
	p.timeMillis = endMillis
	p.finishedEdges++

	if edge.UseConsole {
		p.printer.SetConsoleLocked(false)
	}

	if p.cfg.Verbosity == build.Quiet {
		p.runningEdges--
		return
	}

	if !edge.UseConsole {
		p.printStatus(edge, endMillis)
	}
	p.runningEdges--

	// Print the command that is spewing before printing its output.
	if !result.Success() {
		var outputs strings.Builder
		for _, out := range edge.Outputs {
			outputs.WriteString(out)
			outputs.WriteByte(' ')
		}
		p.printer.PrintOnNewLine("FAILED: " + outputs.String() + "\n")
		p.printer.PrintOnNewLine(edge.Command + "\n")
	}

	if result != nil && result.Output != "" {
		output := result.Output
		// Commands are run on pipes and may be forced to emit colour; keep
		// escape codes only when they will reach a terminal.
		if !p.printer.IsSmartTerminal() {
			output = ansi.Strip(output)
		}
		p.printer.PrintOnNewLine(output)
	}
}

// BuildFinished releases the console and ends the current line.
func (p *Printer) BuildFinished() {
	p.printer.SetConsoleLocked(false)
	p.printer.PrintOnNewLine("")
}

// Info prints a "ninja: " prefixed line.
func (p *Printer) Info(message string) {
	p.printer.Print("ninja: "+message, LineFull)
}

// Warning prints a "ninja: warning: " prefixed line.
func (p *Printer) Warning(message string) {
	p.printer.Print("ninja: warning: "+message, LineFull)
}

// Error prints a "ninja: error: " prefixed line.
func (p *Printer) Error(message string) {
	p.printer.Print("ninja: error: "+message, LineFull)
}

// Counts returns the started, finished, running and total edge counters.
func (p *Printer) Counts() (started, finished, running, total int) {
	return p.startedEdges, p.finishedEdges, p.runningEdges, p.totalEdges
}

func (p *Printer) printStatus(edge *build.Edge, timeMillis int64) {
	if p.cfg.Verbosity == build.Quiet {
		return
	}
	forceFullCommand := p.cfg.Verbosity == build.Verbose

	line := edge.Description
	if line == "" || forceFullCommand {
		line = edge.Command
	}
	line = p.FormatProgressStatus(p.format, timeMillis) + line

	lineType := LineElide
	if forceFullCommand {
		lineType = LineFull
	}
	p.printer.Print(line, lineType)
}
