package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// AuxDir is the auxiliary archive root; daily products are placed under
	// <aux_dir>/LADS/<year>/.
	AuxDir     string `toml:"aux_dir"`
	StagingDir string `toml:"staging_dir"`
	LogDir     string `toml:"log_dir"`
}

// LAADS contains configuration for the LAADS DAAC archive interface.
type LAADS struct {
	BaseURL   string `toml:"base_url"`
	Token     string `toml:"token"`
	UserAgent string `toml:"user_agent"`
}

// Resolver contains the temporal policy configuration for auxiliary product
// selection.
type Resolver struct {
	// ViirsStartDate is the acquisition date (YYYY-MM-DD) at which the
	// current-generation VIIRS products replace the legacy fused product.
	// Defaults far into the future so legacy data is used unless configured.
	ViirsStartDate string `toml:"viirs_start_date"`
}

// Fetch contains retry and scheduling bounds for network retrieval.
type Fetch struct {
	RetryBudget       int `toml:"retry_budget"`
	RetryDelaySeconds int `toml:"retry_delay_seconds"`
	// LagDays is subtracted from the current day of year before processing
	// the current year, accounting for upstream publication delay.
	LagDays int `toml:"lag_days"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for ladsync.
//
// Configuration sections by subsystem:
//   - Paths: archive root, staging, and log directories
//   - LAADS: remote archive base URL and bearer token
//   - Resolver: legacy/current-generation cutover policy
//   - Fetch: retry bounds and the current-year processing lag
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	LAADS    LAADS    `toml:"laads"`
	Resolver Resolver `toml:"resolver"`
	Fetch    Fetch    `toml:"fetch"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/ladsync/config.toml")
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

	projectPath, err := filepath.Abs("ladsync.toml")
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

// EnsureDirectories creates required directories for run operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.AuxDir) != "" {
		// Best-effort so config load keeps working when external storage is
		// temporarily offline; preflight reports the hard failure.
		_ = os.MkdirAll(filepath.Join(c.Paths.AuxDir, "LADS"), 0o755)
	}
	return nil
}

// CutoverDate returns the parsed VIIRS start date.
func (c *Config) CutoverDate() time.Time {
	t, err := ParseCutover(c.Resolver.ViirsStartDate)
	if err != nil {
		// Validate rejects unparseable values; fall back to the far-future
		// default for zero-value configs that skipped Load.
		t, _ = ParseCutover(defaultViirsStartDate)
	}
	return t
}

// ParseCutover parses a cutover date in YYYY-MM-DD or compact YYYYMMDD form.
func ParseCutover(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"2006-01-02", "20060102"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid cutover date %q (want YYYY-MM-DD)", value)
}

// RetryDelay returns the configured retry delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Fetch.RetryDelaySeconds) * time.Second
}

// GapfillBinary returns the gap-filling executable name.
func (c *Config) GapfillBinary() string {
	return "gapfill_viirs_aux"
}

// LasrcBinary returns the surface-reflectance executable name.
func (c *Config) LasrcBinary() string {
	return "lasrc"
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

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
