package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.AuxDir) == "" {
		return fmt.Errorf("paths.aux_dir is required (or set LASRC_AUX_DIR)")
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return fmt.Errorf("paths.staging_dir is required")
	}
	if strings.TrimSpace(c.LAADS.BaseURL) == "" {
		return fmt.Errorf("laads.base_url is required")
	}
	if _, err := ParseCutover(c.Resolver.ViirsStartDate); err != nil {
		return fmt.Errorf("resolver.viirs_start_date: %w", err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
