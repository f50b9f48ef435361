package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ResourceDir) == "" {
		return errors.New("paths.resource_dir must be set")
	}
	if strings.TrimSpace(c.Paths.Database) == "" {
		return errors.New("paths.database must be set")
	}
	url := c.Paths.ResourceURL
	if !strings.HasPrefix(url, "/") || strings.HasPrefix(url, "//") {
		return fmt.Errorf("paths.resource_url must be a root-relative path such as %q, got %q", defaultResourceURL, url)
	}
	return nil
}

func (c *Config) validateImport() error {
	if c.Import.DefaultReward < 0 {
		return errors.New("import.default_reward must be >= 0")
	}
	if c.Import.StarWeight < 0 {
		return errors.New("import.star_weight must be >= 0")
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
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}
