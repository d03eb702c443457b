package status

import (
	"io"
	"strings"
)

// LineType selects how Print treats a line on a smart terminal.
type LineType int

const (
	// LineFull prints the whole line and moves to the next one.
	LineFull LineType = iota
	// LineElide trims the line to the terminal width and keeps the cursor
	// on it so the next Print overwrites it.
	LineElide
)

const eraseToEOL = "\x1b[K"

// LinePrinter writes status lines, overwriting the previous one when the
// output is a smart terminal.
//
// While the console is locked (an edge owns the terminal) nothing is
// written: the latest status line and any other output are buffered and
// replayed on unlock.
type LinePrinter struct {
	out   io.Writer
	smart bool
	width int

	haveBlankLine bool
	consoleLocked bool
	lineBuffer    string
	lineType      LineType
	outputBuffer  strings.Builder
}

// NewLinePrinter returns a LinePrinter writing to out. Smart terminal
// support is detected when out is a terminal file.
func NewLinePrinter(out io.Writer) *LinePrinter {
	return &LinePrinter{
		out:           out,
		smart:         isSmartTerminal(out),
		haveBlankLine: true,
	}
}

// IsSmartTerminal reports whether lines are overwritten in place.
func (p *LinePrinter) IsSmartTerminal() bool { return p.smart }

// SetSmartTerminal overrides terminal detection.
func (p *LinePrinter) SetSmartTerminal(smart bool) { p.smart = smart }

// SetWidth fixes the width used for eliding. Zero queries the terminal on
// every elided line.
func (p *LinePrinter) SetWidth(width int) { p.width = width }

// Print writes a status line.
func (p *LinePrinter) Print(line string, lineType LineType) {
	if p.consoleLocked {
		p.lineBuffer = line
		p.lineType = lineType
		return
	}

	if p.smart {
		p.write("\r") // Print over previous line, if any.
	}

	if p.smart && lineType == LineElide {
		width := p.width
		if width == 0 {
			width = terminalWidth(p.out)
		}
		if width > 0 {
			line = ElideMiddle(line, width)
		}
		p.write(line + eraseToEOL)
		p.haveBlankLine = false
		return
	}
	p.write(line + "\n")
}

// PrintOnNewLine writes text starting on a fresh line, leaving any status
// line above it intact.
func (p *LinePrinter) PrintOnNewLine(text string) {
	if p.consoleLocked && p.lineBuffer != "" {
		p.outputBuffer.WriteString(p.lineBuffer)
		p.outputBuffer.WriteByte('\n')
		p.lineBuffer = ""
	}
	if !p.haveBlankLine {
		p.printOrBuffer("\n")
	}
	if text != "" {
		p.printOrBuffer(text)
	}
	p.haveBlankLine = text == "" || text[len(text)-1] == '\n'
}

// SetConsoleLocked grants or releases exclusive use of the terminal.
// Releasing flushes everything buffered while locked.
func (p *LinePrinter) SetConsoleLocked(locked bool) {
	if locked == p.consoleLocked {
		return
	}
	if locked {
		p.PrintOnNewLine("")
	}
	p.consoleLocked = locked
	if locked {
		return
	}

	buffered := p.outputBuffer.String()
	p.outputBuffer.Reset()
	line, lineType := p.lineBuffer, p.lineType
	p.lineBuffer = ""

	p.PrintOnNewLine(buffered)
	if line != "" {
		p.Print(line, lineType)
	}
}

// ConsoleLocked reports whether an edge currently owns the terminal.
func (p *LinePrinter) ConsoleLocked() bool { return p.consoleLocked }

func (p *LinePrinter) printOrBuffer(text string) {
	if p.consoleLocked {
		p.outputBuffer.WriteString(text)
		return
	}
	p.write(text)
}

func (p *LinePrinter) write(text string) {
	_, _ = io.WriteString(p.out, text)
}

// ElideMiddle shortens s to at most width runes by replacing its middle
// with "...".
func ElideMiddle(s string, width int) string {
	const margin = 3 // Space for "...".
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= margin {
		return string([]rune("...")[:max(width, 0)])
	}
	keep := (width - margin) / 2
	return string(runes[:keep]) + "..." + string(runes[len(runes)-keep:])
}
