// Package preflight validates the environment before an update run: archive
// and staging directories, LAADS credentials and reachability, and the
// external tools the pipeline shells out to.
package preflight

import (
	"context"

	"ladsync/internal/config"
	"ladsync/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Auxiliary archive", cfg.Paths.AuxDir))
	results = append(results, CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckLAADS(ctx, cfg.LAADS.BaseURL, cfg.LAADS.Token, cfg.LAADS.UserAgent))

	for _, status := range CheckTools(cfg) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Command}
		if !status.Available {
			result.Detail = status.Detail
			if status.Optional {
				result.Passed = true
				result.Detail = status.Detail + " (optional)"
			}
		}
		results = append(results, result)
	}

	return results
}

// CheckTools evaluates the external binaries an update run depends on. The
// surface-reflectance executable is optional because fetch-only deployments
// never invoke it.
func CheckTools(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "Gap-fill tool",
			Command:     cfg.GapfillBinary(),
			Description: "Required to interpolate missing cells in fetched auxiliary files",
		},
		{
			Name:        "Surface reflectance",
			Command:     cfg.LasrcBinary(),
			Description: "Required only when processing scenes with the process command",
			Optional:    true,
		},
	}
	return deps.CheckBinaries(requirements)
}

// Passed reports whether every result succeeded.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
