package config

const (
	defaultSide            = 8
	defaultWorkers         = 0
	defaultCachePath       = "~/.cache/imagegrouper/digests.db"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultProgressEnabled = true
	defaultConfigLocation  = "~/.config/imagegrouper/config.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Side:    defaultSide,
		Workers: defaultWorkers,
		Cache: Cache{
			Enabled: false,
			Path:    defaultCachePath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Progress: Progress{
			Enabled: defaultProgressEnabled,
		},
	}
}
