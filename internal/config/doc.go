// Package config loads, normalizes, and validates the TOML configuration for
// ladsync.
//
// Load resolves ~/.config/ladsync/config.toml first and ./ladsync.toml
// second, layers the file over Default(), expands ~ in path fields, and
// applies the environment fallbacks deployments rely on (LASRC_AUX_DIR,
// LAADS_TOKEN, VIIRS_AUX_STARTING_DATE).
package config
