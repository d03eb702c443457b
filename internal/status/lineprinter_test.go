package status

import (
	"bytes"
	"testing"
)

func TestElideMiddle(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{in: "short", width: 80, want: "short"},
		{in: "exact", width: 5, want: "exact"},
		{in: "01234567890123456789", width: 10, want: "012...789"},
		{in: "01234567890123456789", width: 11, want: "0123...6789"},
		{in: "abcdef", width: 3, want: "..."},
		{in: "abcdef", width: 2, want: ".."},
		{in: "abcdef", width: 0, want: ""},
		{in: "ééééééééé", width: 5, want: "é...é"},
	}
	for _, tc := range cases {
		if got := ElideMiddle(tc.in, tc.width); got != tc.want {
			t.Fatalf("ElideMiddle(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func TestLinePrinterDumbTerminal(t *testing.T) {
	var buf bytes.Buffer
	lp := NewLinePrinter(&buf)
	if lp.IsSmartTerminal() {
		t.Fatalf("expected buffer to be a dumb terminal")
	}
	lp.Print("first", LineElide)
	lp.Print("second", LineFull)
	lp.PrintOnNewLine("output\n")
	if got, want := buf.String(), "first\nsecond\noutput\n"; got != want {
		t.Fatalf("output mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestLinePrinterSmartTerminalOverwrites(t *testing.T) {
	var buf bytes.Buffer
	lp := NewLinePrinter(&buf)
	lp.SetSmartTerminal(true)
	lp.SetWidth(10)

	lp.Print("[1/2] something long", LineElide)
	lp.PrintOnNewLine("out\n")
	lp.Print("[2/2] b", LineElide)

	want := "\r[1/...ong" + eraseToEOL + "\nout\n" + "\r[2/2] b" + eraseToEOL
	if got := buf.String(); got != want {
		t.Fatalf("output mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestLinePrinterBuffersWhileLocked(t *testing.T) {
	var buf bytes.Buffer
	lp := NewLinePrinter(&buf)

	lp.SetConsoleLocked(true)
	if !lp.ConsoleLocked() {
		t.Fatalf("expected console to be locked")
	}
	lp.Print("status one", LineElide)
	lp.Print("status two", LineElide)
	lp.PrintOnNewLine("edge output\n")
	lp.Print("status three", LineFull)
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written while locked, got %q", buf.String())
	}

	lp.SetConsoleLocked(false)
	want := "status two\nedge output\nstatus three\n"
	if got := buf.String(); got != want {
		t.Fatalf("output mismatch\n got: %q\nwant: %q", got, want)
	}
}
