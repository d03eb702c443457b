package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"buildstatus/internal/config"
	"buildstatus/internal/protocol"
	"buildstatus/internal/testsupport"
)

type cliTestEnv struct {
	configPath  string
	historyPath string
	baseDir     string
}

func setupCLITestEnv(t *testing.T) cliTestEnv {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", base)
	t.Setenv(config.StatusFormatEnv, config.DefaultStatusFormat)

	historyPath := filepath.Join(base, "history.db")
	configPath := filepath.Join(base, "config.toml")
	content := "[build]\nparallelism = 2\n\n[logging]\nlevel = \"error\"\n\n[history]\npath = \"" + historyPath + "\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cliTestEnv{configPath: configPath, historyPath: historyPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string, stdin []byte) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(bytes.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func sampleStream(t *testing.T) []byte {
	t.Helper()
	return testsupport.EncodeStream(t,
		protocol.TotalEdges{Total: 2},
		protocol.BuildStarted{Parallelism: 2},
		protocol.EdgeStarted{ID: 1, Outputs: []string{"a.o"}, Description: "CC a.o", Command: "cc -c a.c"},
		protocol.EdgeFinished{ID: 1, EndMillis: 40},
		protocol.EdgeStarted{ID: 2, StartMillis: 40, Outputs: []string{"app"}, Description: "LINK app", Command: "cc -o app a.o"},
		protocol.EdgeFinished{ID: 2, EndMillis: 90, ExitStatus: 1, Output: "undefined reference\n"},
		protocol.Log{Level: protocol.KindError, Text: "subcommand failed"},
		protocol.BuildFinished{},
	)
}

const sampleTrace = `
parallelism: 2
edges:
  - id: 1
    outputs: [a.o]
    description: CC a.o
    command: cc -c a.c
    start_ms: 0
    end_ms: 40
  - id: 2
    outputs: [app]
    description: LINK app
    command: cc -o app a.o
    start_ms: 40
    end_ms: 90
`

func TestFrontendPrintsProgress(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"frontend"}, env.configPath, sampleStream(t))
	if err != nil {
		t.Fatalf("frontend: %v", err)
	}
	want := "[1/2] CC a.o\n[2/2] LINK app\nFAILED: app \ncc -o app a.o\nundefined reference\nninja: error: subcommand failed\n"
	if out != want {
		t.Fatalf("output mismatch\n got: %q\nwant: %q", out, want)
	}
}

func TestFrontendRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"frontend", "--record"}, env.configPath, sampleStream(t)); err != nil {
		t.Fatalf("frontend --record: %v", err)
	}

	out, _, err := runCLI(t, []string{"history"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "CC a.o")
	requireContains(t, out, "LINK app")

	out, _, err = runCLI(t, []string{"history", "--slowest", "--json", "--limit", "1"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("history --slowest: %v", err)
	}
	var edges []map[string]any
	if err := json.Unmarshal([]byte(out), &edges); err != nil {
		t.Fatalf("decode history json: %v", err)
	}
	if len(edges) != 1 || edges[0]["description"] != "LINK app" {
		t.Fatalf("unexpected slowest edges %v", edges)
	}

	out, _, err = runCLI(t, []string{"history", "--builds"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("history --builds: %v", err)
	}
	requireContains(t, out, "yes")
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"history"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No recorded edges")
	if _, _, err := runCLI(t, []string{"history", "--slowest", "--builds"}, env.configPath, nil); err == nil {
		t.Fatal("expected conflicting flags to fail")
	}
}

func TestFrontendRejectsGarbage(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"frontend"}, env.configPath, []byte("not a stream")); err == nil {
		t.Fatal("expected bad stream to fail")
	}
}

func TestDumpJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"dump", "--json"}, env.configPath, sampleStream(t))
	if err != nil {
		t.Fatalf("dump --json: %v", err)
	}
	var rows []dumpRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode dump json: %v", err)
	}
	if len(rows) != 8 {
		t.Fatalf("expected 8 rows, got %d", len(rows))
	}
	if rows[5].Kind != "edge_finished" || !rows[5].Failed || rows[5].EdgeID == nil || *rows[5].EdgeID != 2 {
		t.Fatalf("unexpected failed edge row %+v", rows[5])
	}
	requireContains(t, rows[5].Detail, "duration=50ms")
}

func TestDumpListsUnknownKinds(t *testing.T) {
	env := setupCLITestEnv(t)
	// A kind 42 message carrying one field, then TotalEdges.
	stream := append(testsupport.EncodeStream(t), 0x92, 0x2a, 0xc3, 0x92, 0x00, 0x01)
	out, _, err := runCLI(t, []string{"dump", "--json"}, env.configPath, stream)
	if err != nil {
		t.Fatalf("dump --json: %v", err)
	}
	var rows []dumpRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode dump json: %v", err)
	}
	if len(rows) != 2 || rows[0].Kind != "kind(42)" || rows[0].Detail != "fields=1" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if rows[1].Kind != "total_edges" {
		t.Fatalf("expected total_edges after unknown kind, got %+v", rows[1])
	}
}

func TestDumpTableFromFile(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "stream.bin")
	if err := os.WriteFile(path, sampleStream(t), 0o644); err != nil {
		t.Fatalf("write stream: %v", err)
	}
	out, _, err := runCLI(t, []string{"dump", path}, env.configPath, nil)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	requireContains(t, out, "build_started")
	requireContains(t, out, "parallelism=2")
	requireContains(t, out, "subcommand failed")
}

func TestReplayPrintsTrace(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "trace.yaml")
	if err := os.WriteFile(path, []byte(sampleTrace), 0o644); err != nil {
		t.Fatalf("write trace: %v", err)
	}
	out, _, err := runCLI(t, []string{"replay", path}, env.configPath, nil)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if want := "[1/2] CC a.o\n[2/2] LINK app\n"; out != want {
		t.Fatalf("output mismatch\n got: %q\nwant: %q", out, want)
	}
}

func TestReplayThroughFrontend(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	env := setupCLITestEnv(t)
	tracePath := filepath.Join(env.baseDir, "trace.yaml")
	if err := os.WriteFile(tracePath, []byte(sampleTrace), 0o644); err != nil {
		t.Fatalf("write trace: %v", err)
	}
	streamPath := filepath.Join(env.baseDir, "captured.bin")
	if _, _, err := runCLI(t, []string{"replay", tracePath, "--frontend", "cat > '" + streamPath + "'"}, env.configPath, nil); err != nil {
		t.Fatalf("replay --frontend: %v", err)
	}

	captured, err := os.ReadFile(streamPath)
	if err != nil {
		t.Fatalf("read captured stream: %v", err)
	}
	out, _, err := runCLI(t, []string{"frontend"}, env.configPath, captured)
	if err != nil {
		t.Fatalf("frontend: %v", err)
	}
	if want := "[1/2] CC a.o\n[2/2] LINK app\n"; out != want {
		t.Fatalf("output mismatch\n got: %q\nwant: %q", out, want)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "new", "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", nil)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", nil); err == nil {
		t.Fatal("expected second init to refuse")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, "", nil); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "show"}, target, nil)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "# "+target)
	requireContains(t, out, "[status]")
	requireContains(t, out, "parallelism = 1")
}
