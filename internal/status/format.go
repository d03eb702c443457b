package status

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// FormatEnv names the environment variable holding the progress format.
const FormatEnv = "NINJA_STATUS"

// DefaultFormat is used when FormatEnv is unset.
const DefaultFormat = "[%f/%t] "

// FormatFromEnv returns the progress format from the environment, falling
// back to DefaultFormat.
func FormatFromEnv() string {
	if value, ok := os.LookupEnv(FormatEnv); ok {
		return value
	}
	return DefaultFormat
}

// fatal ends the process on a broken progress format. It is a variable so
// tests can observe the call instead of exiting.
var fatal = func(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "buildstatus: fatal: "+format+"\n", args...)
	os.Exit(1)
}

// SetFatalForTests overrides the fatal handler and returns a restore func.
func SetFatalForTests(fn func(format string, args ...any)) func() {
	previous := fatal
	fatal = fn
	return func() {
		fatal = previous
	}
}

// FormatProgressStatus expands the placeholders of format:
//
//	%%  a literal percent sign
//	%s  started edges
//	%t  total edges
//	%r  running edges
//	%u  edges not yet started
//	%f  finished edges
//	%o  overall rate, finished edges per second
//	%c  current rate over the last parallelism edges
//	%p  percentage of edges finished
//	%e  elapsed seconds
//
// An unknown placeholder is fatal.
func (p *Printer) FormatProgressStatus(format string, timeMillis int64) string {
	var out strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			out.WriteByte(c)
			continue
		}
		i++
		if i == len(format) {
			fatal("unknown placeholder '%%' at end of $%s", FormatEnv)
			return ""
		}
		switch format[i] {
		case '%':
			out.WriteByte('%')
		case 's':
			out.WriteString(strconv.Itoa(p.startedEdges))
		case 't':
			out.WriteString(strconv.Itoa(p.totalEdges))
		case 'r':
			out.WriteString(strconv.Itoa(p.runningEdges))
		case 'u':
			out.WriteString(strconv.Itoa(p.totalEdges - p.startedEdges))
		case 'f':
			out.WriteString(strconv.Itoa(p.finishedEdges))
		case 'o':
			if timeMillis > 0 {
				out.WriteString(formatRate(float64(p.finishedEdges) / (float64(timeMillis) / 1e3)))
			} else {
				out.WriteByte('?')
			}
		case 'c':
			p.currentRate.UpdateRate(p.finishedEdges, timeMillis)
			if rate := p.currentRate.Rate(); rate >= 0 {
				out.WriteString(formatRate(rate))
			} else {
				out.WriteByte('?')
			}
		case 'p':
			percent := 0
			if p.totalEdges > 0 {
				percent = 100 * p.finishedEdges / p.totalEdges
			}
			fmt.Fprintf(&out, "%3d%%", percent)
		case 'e':
			fmt.Fprintf(&out, "%.3f", float64(timeMillis)/1e3)
		default:
			fatal("unknown placeholder '%%%c' in $%s", format[i], FormatEnv)
			return ""
		}
	}
	return out.String()
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 1, 64)
}
