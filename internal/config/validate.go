package config

import (
	"fmt"
	"strings"

	"buildstatus/internal/build"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := ValidateStatusFormat(c.Status.Format); err != nil {
		return fmt.Errorf("status.format: %w", err)
	}
	if _, err := build.ParseVerbosity(c.Build.Verbosity); err != nil {
		return fmt.Errorf("build.%w", err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// ValidateStatusFormat checks that every placeholder in a progress format
// is one the printer understands.
func ValidateStatusFormat(format string) error {
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		if i == len(format) {
			return fmt.Errorf("format %q ends with a bare '%%'", format)
		}
		if strings.IndexByte("%strufocpe", format[i]) < 0 {
			return fmt.Errorf("unknown placeholder '%%%c' in %q", format[i], format)
		}
	}
	return nil
}
