package testsupport

import (
	"path/filepath"
	"testing"

	"buildstatus/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a default config whose paths live in a per-test temp
// directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.History.Path = filepath.Join(base, "history.db")
	cfg.Logging.File = ""
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithHistory enables build history on the test config.
func WithHistory() ConfigOption {
	return func(cfg *config.Config) {
		cfg.History.Enabled = true
	}
}
