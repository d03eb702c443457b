package status

import (
	"bytes"
	"strings"
	"testing"

	"buildstatus/internal/build"
)

func newTestPrinter(t *testing.T, cfg build.Config, format string) (*Printer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewPrinter(cfg, format, NewLinePrinter(&buf)), &buf
}

func TestFormatProgressStatus(t *testing.T) {
	p, _ := newTestPrinter(t, build.Config{Parallelism: 2}, DefaultFormat)
	p.startedEdges = 5
	p.finishedEdges = 3
	p.runningEdges = 2
	p.totalEdges = 12

	cases := []struct {
		format string
		millis int64
		want   string
	}{
		{format: "[%f/%t] ", millis: 0, want: "[3/12] "},
		{format: "%s %r %u", millis: 0, want: "5 2 7"},
		{format: "100%%", millis: 0, want: "100%"},
		{format: "%p", millis: 0, want: " 25%"},
		{format: "%e", millis: 1500, want: "1.500"},
		{format: "%o", millis: 2000, want: "1.5"},
		{format: "%o", millis: 0, want: "?"},
		{format: "plain", millis: 0, want: "plain"},
	}
	for _, tc := range cases {
		if got := p.FormatProgressStatus(tc.format, tc.millis); got != tc.want {
			t.Fatalf("FormatProgressStatus(%q) = %q, want %q", tc.format, got, tc.want)
		}
	}
}

func TestFormatPercentWithoutTotal(t *testing.T) {
	p, _ := newTestPrinter(t, build.Config{Parallelism: 1}, DefaultFormat)
	if got := p.FormatProgressStatus("%p", 0); got != "  0%" {
		t.Fatalf("expected zero percent, got %q", got)
	}
}

func TestFormatCurrentRate(t *testing.T) {
	p, _ := newTestPrinter(t, build.Config{Parallelism: 2}, DefaultFormat)
	p.finishedEdges = 1
	if got := p.FormatProgressStatus("%c", 1000); got != "?" {
		t.Fatalf("expected unknown rate, got %q", got)
	}
	p.finishedEdges = 2
	if got := p.FormatProgressStatus("%c", 1500); got != "4.0" {
		t.Fatalf("expected 4.0, got %q", got)
	}
}

func TestFormatUnknownPlaceholderIsFatal(t *testing.T) {
	var message string
	restore := SetFatalForTests(func(format string, args ...any) {
		message = format
	})
	defer restore()

	p, _ := newTestPrinter(t, build.Config{Parallelism: 1}, DefaultFormat)
	for _, format := range []string{"%z", "trailing %"} {
		message = ""
		p.FormatProgressStatus(format, 0)
		if !strings.Contains(message, "unknown placeholder") {
			t.Fatalf("expected fatal for %q, got %q", format, message)
		}
	}
}

func TestNewPrinterReadsFormatFromEnv(t *testing.T) {
	t.Setenv(FormatEnv, "<%t> ")
	p, buf := newTestPrinter(t, build.Config{Parallelism: 1}, "")
	p.PlanHasTotalEdges(4)
	edge := &build.Edge{ID: 1, Description: "STAMP"}
	p.BuildEdgeStarted(edge, 0)
	p.BuildEdgeFinished(edge, 1, &build.Result{})
	if got := buf.String(); got != "<4> STAMP\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestPrinterFailedEdge(t *testing.T) {
	p, buf := newTestPrinter(t, build.Config{Parallelism: 1}, DefaultFormat)
	p.PlanHasTotalEdges(1)
	p.BuildStarted()
	edge := &build.Edge{
		ID:          1,
		Outputs:     []string{"a.o", "a.d"},
		Description: "CC a.o",
		Command:     "cc -c a.c",
	}
	p.BuildEdgeStarted(edge, 0)
	p.BuildEdgeFinished(edge, 10, &build.Result{ExitStatus: 1, Output: "\x1b[31mboom\x1b[0m\n"})
	p.BuildFinished()

	want := "[1/1] CC a.o\nFAILED: a.o a.d \ncc -c a.c\nboom\n"
	if got := buf.String(); got != want {
		t.Fatalf("output mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestPrinterVerboseShowsCommand(t *testing.T) {
	p, buf := newTestPrinter(t, build.Config{Parallelism: 1, Verbosity: build.Verbose}, DefaultFormat)
	p.PlanHasTotalEdges(1)
	edge := &build.Edge{ID: 1, Description: "CC a.o", Command: "cc -c a.c"}
	p.BuildEdgeStarted(edge, 0)
	p.BuildEdgeFinished(edge, 10, &build.Result{})
	if got := buf.String(); got != "[1/1] cc -c a.c\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestPrinterQuietPrintsNothingAndTracksRunning(t *testing.T) {
	p, buf := newTestPrinter(t, build.Config{Parallelism: 1, Verbosity: build.Quiet}, DefaultFormat)
	p.PlanHasTotalEdges(2)
	edge := &build.Edge{ID: 1, Description: "CC a.o"}
	p.BuildEdgeStarted(edge, 0)
	p.BuildEdgeFinished(edge, 10, &build.Result{ExitStatus: 1, Output: "boom\n"})
	if buf.Len() != 0 {
		t.Fatalf("expected quiet output, got %q", buf.String())
	}
	started, finished, running, total := p.Counts()
	if started != 1 || finished != 1 || running != 0 || total != 2 {
		t.Fatalf("unexpected counts %d %d %d %d", started, finished, running, total)
	}
}

func TestPrinterConsoleEdgeHoldsOtherOutput(t *testing.T) {
	p, buf := newTestPrinter(t, build.Config{Parallelism: 2}, DefaultFormat)
	p.PlanHasTotalEdges(2)
	p.BuildStarted()

	console := &build.Edge{ID: 1, Description: "console", UseConsole: true}
	other := &build.Edge{ID: 2, Description: "b"}

	p.BuildEdgeStarted(console, 0)
	p.BuildEdgeStarted(other, 1)
	p.BuildEdgeFinished(other, 2, &build.Result{Output: "b out\n"})
	if got := buf.String(); got != "[0/2] console\n" {
		t.Fatalf("expected other edge output to be held, got %q", buf.String())
	}

	p.BuildEdgeFinished(console, 3, &build.Result{})
	want := "[0/2] console\n[1/2] b\nb out\n"
	if got := buf.String(); got != want {
		t.Fatalf("output mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestPrinterLogLines(t *testing.T) {
	p, buf := newTestPrinter(t, build.Config{Parallelism: 1}, DefaultFormat)
	p.Info("entering directory")
	p.Warning("deprecated rule")
	p.Error("build stopped")
	want := "ninja: entering directory\nninja: warning: deprecated rule\nninja: error: build stopped\n"
	if got := buf.String(); got != want {
		t.Fatalf("output mismatch\n got: %q\nwant: %q", got, want)
	}
}
