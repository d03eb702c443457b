package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"buildstatus/internal/build"
	"buildstatus/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	t.Setenv(config.StatusFormatEnv, "")
	os.Unsetenv(config.StatusFormatEnv)
	return home
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	home := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(home, ".config", "buildstatus", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if cfg.Status.Format != config.DefaultStatusFormat {
		t.Fatalf("unexpected status format %q", cfg.Status.Format)
	}
	if cfg.Build.Parallelism != 1 || cfg.Build.Verbosity != "normal" {
		t.Fatalf("unexpected build defaults %+v", cfg.Build)
	}
	if want := filepath.Join(home, ".local", "share", "buildstatus", "history.db"); cfg.History.Path != want {
		t.Fatalf("unexpected history path: got %q want %q", cfg.History.Path, want)
	}
	if cfg.History.Enabled {
		t.Fatal("expected history disabled by default")
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[status]
format = "[%s/%t %o] "
frontend = "  cat >/dev/null  "

[build]
parallelism = 8
verbosity = "Verbose"

[logging]
format = "JSON"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Status.Format != "[%s/%t %o] " {
		t.Fatalf("unexpected format %q", cfg.Status.Format)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized log format, got %q", cfg.Logging.Format)
	}
	got := cfg.BuildConfig()
	want := build.Config{Parallelism: 8, Verbosity: build.Verbose, Frontend: "cat >/dev/null"}
	if got != want {
		t.Fatalf("BuildConfig mismatch: got %+v want %+v", got, want)
	}

	t.Setenv(config.StatusFormatEnv, "%p ")
	cfg, _, _, err = config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Status.Format != "%p " {
		t.Fatalf("expected NINJA_STATUS to override file, got %q", cfg.Status.Format)
	}
}

func TestLoadFindsProjectConfig(t *testing.T) {
	isolate(t)
	if err := os.WriteFile("buildstatus.toml", []byte("[build]\nparallelism = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "buildstatus.toml" {
		t.Fatalf("expected project config, got %q (exists=%v)", resolved, exists)
	}
	if cfg.Build.Parallelism != 3 {
		t.Fatalf("unexpected parallelism %d", cfg.Build.Parallelism)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolate(t)
	cases := map[string]string{
		"bad placeholder": "[status]\nformat = \"%x\"\n",
		"bad verbosity":   "[build]\nverbosity = \"loud\"\n",
		"bad log format":  "[logging]\nformat = \"xml\"\n",
		"unknown key":     "[status]\ncolour = true\n",
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, _, _, err := config.Load(path); err == nil {
			t.Fatalf("%s: expected Load to fail", name)
		}
	}
}

func TestValidateStatusFormat(t *testing.T) {
	if err := config.ValidateStatusFormat("[%f/%t] %o %c %p %e %% %s %r %u"); err != nil {
		t.Fatalf("expected valid format, got %v", err)
	}
	for _, format := range []string{"%x", "50%"} {
		if err := config.ValidateStatusFormat(format); err == nil {
			t.Fatalf("expected %q to be rejected", format)
		}
	}
}

func TestCreateSampleMatchesDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if err := config.CreateSample(path); err == nil {
		t.Fatal("expected CreateSample to refuse to overwrite")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var sample config.Config
	if err := toml.Unmarshal(data, &sample); err != nil {
		t.Fatalf("parse sample: %v", err)
	}
	defaults := config.Default()
	if sample != defaults {
		t.Fatalf("sample config drifted from defaults\nsample: %+v\ndefaults: %+v", sample, defaults)
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	cfg := config.Default()
	cfg.Status.Frontend = "buildstatus frontend"
	data, err := config.Encode(&cfg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "[status]") {
		t.Fatalf("expected status table in %q", data)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("parse encoded config: %v", err)
	}
	if decoded != cfg {
		t.Fatalf("round trip mismatch: got %+v want %+v", decoded, cfg)
	}
}
