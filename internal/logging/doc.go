// Package logging assembles structured slog loggers shared across ladsync
// components.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so fetch and scheduling code can tag log
// lines with run IDs, years, and days of year without threading attributes by
// hand. A no-op logger is available for tests and wiring code that cannot
// fail.
package logging
