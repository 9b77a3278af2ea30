package config

const (
	defaultPrefix          = "fathomnet"
	defaultDatasetName     = "fathomnet-2025"
	defaultConcurrency     = 50
	defaultRequestTimeout  = 60
	defaultPlatformTimeout = 30
	defaultUserAgent       = "fathomsync/dev"
	defaultManifestName    = "labels.csv"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultLogDir          = "~/.local/share/fathomsync/logs"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Storage: Storage{
			Prefix: defaultPrefix,
		},
		Platform: Platform{
			DatasetName:    defaultDatasetName,
			RequestTimeout: defaultPlatformTimeout,
		},
		Transfer: Transfer{
			Concurrency:    defaultConcurrency,
			RequestTimeout: defaultRequestTimeout,
			UserAgent:      defaultUserAgent,
		},
		Output: Output{
			ManifestName: defaultManifestName,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			LogDir: defaultLogDir,
		},
	}
}
