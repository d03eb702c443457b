// Package config loads, normalizes, and validates buildstatus configuration.
//
// Settings come from a TOML file (~/.config/buildstatus/config.toml, or
// buildstatus.toml in the working directory) layered over repository
// defaults, with environment fallbacks such as NINJA_STATUS. Always obtain
// settings through Load so callers see expanded paths, canonical names, and
// a validated progress format.
package config
