package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeStatus()
	c.normalizeBuild()
	c.normalizeLogging()
	return c.normalizePaths()
}

func (c *Config) normalizeStatus() {
	// NINJA_STATUS wins over the file so existing ninja setups keep working.
	if value, ok := os.LookupEnv(StatusFormatEnv); ok {
		c.Status.Format = value
	}
	c.Status.Frontend = strings.TrimSpace(c.Status.Frontend)
}

func (c *Config) normalizeBuild() {
	if c.Build.Parallelism <= 0 {
		c.Build.Parallelism = defaultParallelism
	}
	c.Build.Verbosity = strings.ToLower(strings.TrimSpace(c.Build.Verbosity))
	if c.Build.Verbosity == "" {
		c.Build.Verbosity = defaultVerbosity
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
