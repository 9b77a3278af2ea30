package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"fathomsync/internal/config"
	"fathomsync/internal/logging"
)

type commandContext struct {
	configFlag *string
	verbosity  *int

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, verbosity *int) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbosity:  verbosity,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the shared logger. Verbosity flags only raise the
// configured level, never lower it.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}

		level := cfg.Logging.Level
		development := false
		if c.verbosity != nil {
			if *c.verbosity >= 1 {
				level = "debug"
			}
			if *c.verbosity >= 2 {
				development = true
			}
		}

		outputs := []string{"stderr"}
		if cfg.Logging.LogDir != "" {
			outputs = append(outputs, filepath.Join(cfg.Logging.LogDir, "fathomsync.log"))
		}

		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:       level,
			Format:      cfg.Logging.Format,
			OutputPaths: outputs,
			Development: development,
		})
	})
	return c.logger, c.loggerErr
}
