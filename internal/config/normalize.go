package config

import (
	"fmt"
	"os"
	"strings"

	"curriculum/internal/textutil"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeImport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(contentDirEnv); ok && strings.TrimSpace(value) != "" {
		c.Paths.ContentDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.ContentDir) == "" {
		c.Paths.ContentDir = defaultContentDir
	}
	if strings.TrimSpace(c.Paths.ResourceDir) == "" {
		c.Paths.ResourceDir = defaultResourceDir
	}
	if strings.TrimSpace(c.Paths.Database) == "" {
		c.Paths.Database = defaultDatabase
	}

	var err error
	if c.Paths.ContentDir, err = expandPath(c.Paths.ContentDir); err != nil {
		return fmt.Errorf("paths.content_dir: %w", err)
	}
	if c.Paths.ResourceDir, err = expandPath(c.Paths.ResourceDir); err != nil {
		return fmt.Errorf("paths.resource_dir: %w", err)
	}
	if c.Paths.Database, err = expandPath(c.Paths.Database); err != nil {
		return fmt.Errorf("paths.database: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	c.Paths.ResourceURL = strings.TrimSpace(c.Paths.ResourceURL)
	if c.Paths.ResourceURL == "" {
		c.Paths.ResourceURL = defaultResourceURL
	}
	if len(c.Paths.ResourceURL) > 1 {
		c.Paths.ResourceURL = strings.TrimRight(c.Paths.ResourceURL, "/")
	}
	return nil
}

func (c *Config) normalizeImport() {
	c.Import.DefaultLanguages = textutil.OrderedSet(c.Import.DefaultLanguages)
	if c.Import.StarWeight == 0 {
		c.Import.StarWeight = defaultStarWeight
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
