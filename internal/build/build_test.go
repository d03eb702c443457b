package build

import "testing"

func TestParseVerbosity(t *testing.T) {
	tests := []struct {
		in   string
		want Verbosity
	}{
		{"", Normal},
		{"normal", Normal},
		{" Quiet ", Quiet},
		{"VERBOSE", Verbose},
	}
	for _, tt := range tests {
		got, err := ParseVerbosity(tt.in)
		if err != nil {
			t.Fatalf("ParseVerbosity(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseVerbosity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseVerbosity("loud"); err == nil {
		t.Fatal("expected error for unknown verbosity")
	}
}

func TestResultSuccess(t *testing.T) {
	var nilResult *Result
	if nilResult.Success() {
		t.Fatal("nil result should not be successful")
	}
	if !(&Result{}).Success() {
		t.Fatal("zero exit status should be successful")
	}
	if (&Result{ExitStatus: 2}).Success() {
		t.Fatal("non-zero exit status should fail")
	}
}
