package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Requirements specific to a
// single command (bucket, platform credentials) are checked by that command
// via RequireStorage/RequirePlatform instead.
func (c *Config) Validate() error {
	if err := c.validateTransfer(); err != nil {
		return err
	}
	if err := c.validatePlatform(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTransfer() error {
	if c.Transfer.Concurrency < 1 {
		return errors.New("transfer.concurrency must be at least 1")
	}
	if c.Transfer.Concurrency > 512 {
		return fmt.Errorf("transfer.concurrency %d is unreasonably high; stay at or below 512", c.Transfer.Concurrency)
	}
	return nil
}

func (c *Config) validatePlatform() error {
	if c.Platform.RequestTimeout < 1 {
		return errors.New("platform.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
