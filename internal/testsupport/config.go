package testsupport

import (
	"path/filepath"
	"testing"

	"fathomsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Storage.Bucket = "test-bucket"
	cfg.Transfer.Concurrency = 4
	cfg.Logging.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithPlatform points the platform section at a test server.
func WithPlatform(apiURI, apiKey string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Platform.APIURI = apiURI
		cfg.Platform.APIKey = apiKey
	}
}
