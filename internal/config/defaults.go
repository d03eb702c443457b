package config

const (
	// DefaultStatusFormat is the progress prefix used when neither the
	// config file nor NINJA_STATUS provide one.
	DefaultStatusFormat = "[%f/%t] "
	// StatusFormatEnv overrides status.format when set.
	StatusFormatEnv = "NINJA_STATUS"

	defaultParallelism = 1
	defaultVerbosity   = "normal"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultHistoryPath = "~/.local/share/buildstatus/history.db"
	defaultConfigPath  = "~/.config/buildstatus/config.toml"
	projectConfigName  = "buildstatus.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Status: Status{
			Format: DefaultStatusFormat,
		},
		Build: Build{
			Parallelism: defaultParallelism,
			Verbosity:   defaultVerbosity,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: false,
			Path:    defaultHistoryPath,
		},
	}
}
