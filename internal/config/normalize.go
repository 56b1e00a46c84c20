package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOracle()
	c.normalizeIcons()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(strings.TrimSpace(c.Paths.CacheDir)); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOracle() {
	c.Oracle.UniBinary = strings.TrimSpace(c.Oracle.UniBinary)
	if c.Oracle.UniBinary == "" {
		c.Oracle.UniBinary = defaultUniBinary
	}
	c.Oracle.ConvertBinary = strings.TrimSpace(c.Oracle.ConvertBinary)
	if c.Oracle.ConvertBinary == "" {
		c.Oracle.ConvertBinary = defaultConvertBinary
	}
	c.Oracle.Tones = strings.ReplaceAll(strings.TrimSpace(c.Oracle.Tones), " ", "")
	c.Oracle.Genders = strings.ReplaceAll(strings.TrimSpace(c.Oracle.Genders), " ", "")
}

func (c *Config) normalizeIcons() {
	if c.Icons.PointSize == 0 {
		c.Icons.PointSize = defaultPointSize
	}
	c.Icons.FallbackGlyph = strings.TrimSpace(c.Icons.FallbackGlyph)
	if c.Icons.FallbackGlyph == "" {
		c.Icons.FallbackGlyph = defaultFallbackGlyph
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level

	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
}
