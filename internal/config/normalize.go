package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLAADS()
	c.normalizeResolver()
	c.normalizeFetch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	// LASRC_AUX_DIR is how deployments have historically pointed processing
	// at the auxiliary archive; it wins over the config file.
	if value, ok := os.LookupEnv("LASRC_AUX_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.AuxDir = value
	}
	var err error
	if c.Paths.AuxDir, err = expandPath(c.Paths.AuxDir); err != nil {
		return fmt.Errorf("paths.aux_dir: %w", err)
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLAADS() {
	c.LAADS.BaseURL = strings.TrimRight(strings.TrimSpace(c.LAADS.BaseURL), "/")
	if c.LAADS.BaseURL == "" {
		c.LAADS.BaseURL = defaultLAADSBaseURL
	}
	if c.LAADS.Token == "" {
		if value, ok := os.LookupEnv("LAADS_TOKEN"); ok {
			c.LAADS.Token = value
		}
	}
	c.LAADS.Token = strings.TrimSpace(c.LAADS.Token)
	c.LAADS.UserAgent = strings.TrimSpace(c.LAADS.UserAgent)
	if c.LAADS.UserAgent == "" {
		c.LAADS.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeResolver() {
	c.Resolver.ViirsStartDate = strings.TrimSpace(c.Resolver.ViirsStartDate)
	if c.Resolver.ViirsStartDate == "" {
		if value, ok := os.LookupEnv("VIIRS_AUX_STARTING_DATE"); ok && strings.TrimSpace(value) != "" {
			c.Resolver.ViirsStartDate = strings.TrimSpace(value)
		} else {
			c.Resolver.ViirsStartDate = defaultViirsStartDate
		}
	}
}

func (c *Config) normalizeFetch() {
	if c.Fetch.RetryBudget < 0 {
		c.Fetch.RetryBudget = defaultRetryBudget
	}
	if c.Fetch.RetryDelaySeconds <= 0 {
		c.Fetch.RetryDelaySeconds = defaultRetryDelaySeconds
	}
	if c.Fetch.LagDays < 0 {
		c.Fetch.LagDays = defaultLagDays
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
