package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeStorage(); err != nil {
		return err
	}
	c.normalizePlatform()
	c.normalizeTransfer()
	c.normalizeOutput()
	return c.normalizeLogging()
}

func (c *Config) normalizeStorage() error {
	if c.Storage.Bucket == "" {
		if value, ok := os.LookupEnv("FATHOMSYNC_BUCKET"); ok {
			c.Storage.Bucket = value
		}
	}
	if c.Storage.ProjectID == "" {
		if value, ok := os.LookupEnv("GOOGLE_CLOUD_PROJECT"); ok {
			c.Storage.ProjectID = value
		}
	}
	if c.Storage.CredentialsFile == "" {
		if value, ok := os.LookupEnv("GOOGLE_APPLICATION_CREDENTIALS"); ok {
			c.Storage.CredentialsFile = value
		}
	}

	c.Storage.Bucket = strings.TrimSpace(c.Storage.Bucket)
	c.Storage.ProjectID = strings.TrimSpace(c.Storage.ProjectID)
	c.Storage.Prefix = strings.Trim(strings.TrimSpace(c.Storage.Prefix), "/")
	if c.Storage.Prefix == "" {
		c.Storage.Prefix = defaultPrefix
	}

	if creds := strings.TrimSpace(c.Storage.CredentialsFile); creds != "" {
		expanded, err := expandPath(creds)
		if err != nil {
			return fmt.Errorf("storage.credentials_file: %w", err)
		}
		c.Storage.CredentialsFile = expanded
	}
	return nil
}

func (c *Config) normalizePlatform() {
	if c.Platform.APIURI == "" {
		if value, ok := os.LookupEnv("FIFTYONE_API_URI"); ok {
			c.Platform.APIURI = value
		}
	}
	if c.Platform.APIKey == "" {
		if value, ok := os.LookupEnv("FIFTYONE_API_KEY"); ok {
			c.Platform.APIKey = value
		}
	}
	c.Platform.APIURI = strings.TrimRight(strings.TrimSpace(c.Platform.APIURI), "/")
	c.Platform.APIKey = strings.TrimSpace(c.Platform.APIKey)
	c.Platform.DatasetName = strings.TrimSpace(c.Platform.DatasetName)
	if c.Platform.DatasetName == "" {
		c.Platform.DatasetName = defaultDatasetName
	}
	if c.Platform.RequestTimeout <= 0 {
		c.Platform.RequestTimeout = defaultPlatformTimeout
	}
}

func (c *Config) normalizeTransfer() {
	if c.Transfer.Concurrency == 0 {
		c.Transfer.Concurrency = defaultConcurrency
	}
	if c.Transfer.RequestTimeout <= 0 {
		c.Transfer.RequestTimeout = defaultRequestTimeout
	}
	c.Transfer.UserAgent = strings.TrimSpace(c.Transfer.UserAgent)
	if c.Transfer.UserAgent == "" {
		c.Transfer.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeOutput() {
	c.Output.ManifestName = strings.TrimSpace(c.Output.ManifestName)
	if c.Output.ManifestName == "" {
		c.Output.ManifestName = defaultManifestName
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.LogDir) == "" {
		c.Logging.LogDir = defaultLogDir
	}
	expanded, err := expandPath(c.Logging.LogDir)
	if err != nil {
		return fmt.Errorf("logging.log_dir: %w", err)
	}
	c.Logging.LogDir = expanded
	return nil
}
