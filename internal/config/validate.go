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
	if err := c.validateOracle(); err != nil {
		return err
	}
	if err := c.validateIcons(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		return errors.New("paths.cache_dir must be set")
	}
	return nil
}

func (c *Config) validateOracle() error {
	if c.Oracle.TimeoutSeconds < 0 {
		return errors.New("oracle.timeout_seconds must be >= 0")
	}
	if c.Oracle.Tones == "" {
		return errors.New("oracle.tones must be set (e.g. \"none,light\")")
	}
	if c.Oracle.Genders == "" {
		return errors.New("oracle.genders must be set (e.g. \"all\")")
	}
	return nil
}

func (c *Config) validateIcons() error {
	if c.Icons.PointSize < 8 || c.Icons.PointSize > 512 {
		return fmt.Errorf("icons.point_size must be between 8 and 512, got %d", c.Icons.PointSize)
	}
	if c.Icons.Workers < 0 {
		return errors.New("icons.workers must be >= 0")
	}
	if strings.ContainsAny(c.Icons.FallbackGlyph, `/\`) {
		return fmt.Errorf("icons.fallback_glyph %q must not contain path separators", c.Icons.FallbackGlyph)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	// Zero keeps every rotated file.
	if c.Logging.MaxBackups < 0 {
		return fmt.Errorf("logging.max_backups must be >= 0, got %d", c.Logging.MaxBackups)
	}
	return nil
}
