package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Storage contains Google Cloud Storage settings for the stream-upload path.
type Storage struct {
	Bucket          string `toml:"bucket"`
	Prefix          string `toml:"prefix"`
	ProjectID       string `toml:"project_id"`
	CredentialsFile string `toml:"credentials_file"`
}

// Platform contains settings for the hosted dataset-curation platform.
type Platform struct {
	APIURI         string `toml:"api_uri"`
	APIKey         string `toml:"api_key"`
	DatasetName    string `toml:"dataset_name"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Transfer contains knobs for the concurrent asset pipeline.
type Transfer struct {
	Concurrency    int    `toml:"concurrency"`
	RequestTimeout int    `toml:"request_timeout"`
	UserAgent      string `toml:"user_agent"`
}

// Output contains settings for the local crop-and-save path.
type Output struct {
	ManifestName string `toml:"manifest_name"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	LogDir string `toml:"log_dir"`
}

// Config encapsulates all configuration values for fathomsync.
//
// Sections by subsystem:
//   - Storage: GCS bucket, key prefix, and credentials
//   - Platform: hosted dataset platform endpoint and API key
//   - Transfer: concurrency budget and HTTP behaviour
//   - Output: crop-mode CSV manifest naming
//   - Logging: log format, level, and directory
type Config struct {
	Storage  Storage  `toml:"storage"`
	Platform Platform `toml:"platform"`
	Transfer Transfer `toml:"transfer"`
	Output   Output   `toml:"output"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/fathomsync/config.toml")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("fathomsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// RequireStorage errors unless the settings the upload and auth commands need
// are present. Missing cloud configuration is a startup failure, not a
// per-task one.
func (c *Config) RequireStorage() error {
	if strings.TrimSpace(c.Storage.Bucket) == "" {
		return errors.New("storage.bucket is required. Set FATHOMSYNC_BUCKET or edit the config file (create with 'fathomsync config init')")
	}
	return nil
}

// RequirePlatform errors unless the hosted platform endpoint and key are set.
func (c *Config) RequirePlatform() error {
	if strings.TrimSpace(c.Platform.APIURI) == "" {
		return errors.New("platform.api_uri is required. Set FIFTYONE_API_URI or edit the config file")
	}
	if strings.TrimSpace(c.Platform.APIKey) == "" {
		return errors.New("platform.api_key is required. Set FIFTYONE_API_KEY or edit the config file")
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
