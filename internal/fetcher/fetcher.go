// Package fetcher turns "get the auxiliary file for this day" into staged
// bytes on disk.
//
// For each day it cleans the staging directory, then walks the platform
// candidates in priority order: list the remote day directory, pick the
// single file matching the candidate's daily pattern, download it, and
// verify that exactly one staged file matches. The first candidate that
// produces a file wins; platforms with no data for the day are a normal
// outcome, not an error.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"ladsync/internal/fileutil"
	"ladsync/internal/laads"
	"ladsync/internal/logging"
	"ladsync/internal/resolver"
	"ladsync/internal/services"
)

// Outcome classifies one day-level fetch.
type Outcome string

const (
	// Found means bytes were retrieved and exactly one staged file matches.
	Found Outcome = "found"
	// NotFound means no tried platform has data for the day.
	NotFound Outcome = "not_found"
	// Transient means at least one candidate failed after exhausting its
	// retry budget and none succeeded; the day may work on a later run.
	Transient Outcome = "transient_failure"
)

// Remote is the slice of the LAADS client the fetcher needs.
type Remote interface {
	ListDay(ctx context.Context, remotePath string) ([]laads.Entry, error)
	Download(ctx context.Context, remotePath, name, destDir string) (string, error)
}

// Result reports what a day-level fetch produced. StagedFile and Candidate
// are only meaningful when Outcome is Found.
type Result struct {
	Outcome    Outcome
	Candidate  resolver.Candidate
	StagedFile string
}

// Fetcher downloads daily auxiliary files into a per-year staging directory.
type Fetcher struct {
	remote     Remote
	stagingDir string
	logger     *slog.Logger
}

// New constructs a Fetcher.
func New(remote Remote, stagingDir string, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		remote:     remote,
		stagingDir: stagingDir,
		logger:     logging.NewComponentLogger(logger, "fetcher"),
	}
}

// StagingDir returns the staging directory used for one year.
func (f *Fetcher) StagingDir(year int) string {
	return filepath.Join(f.stagingDir, fmt.Sprintf("%d", year))
}

// FetchDay tries each candidate in priority order until one yields the
// day's file. A returned error is always fatal for the run; recoverable
// conditions are reported through Result.Outcome.
func (f *Fetcher) FetchDay(ctx context.Context, year, doy int, candidates []resolver.Candidate) (Result, error) {
	stagingDir := f.StagingDir(year)
	// Stale files from an interrupted day would defeat the multiplicity
	// check, so the staging directory starts empty every day.
	if err := fileutil.RemoveDirFiles(stagingDir); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "fetcher", "clean staging",
			stagingDir, err)
	}

	sawTransient := false
	for _, candidate := range candidates {
		logger := logging.WithContext(services.WithPlatform(ctx, candidate.Platform), f.logger)

		result, err := f.fetchCandidate(ctx, year, doy, candidate, stagingDir)
		if err != nil {
			if services.IsFatal(err) {
				return Result{}, err
			}
			sawTransient = true
			logger.Warn("candidate abandoned after exhausting retries", logging.Error(err))
			continue
		}
		if result.Outcome == Found {
			logger.Info("auxiliary file staged",
				logging.String("file", filepath.Base(result.StagedFile)))
			return result, nil
		}
		logger.Debug("no data published for day",
			logging.Int(logging.FieldYear, year), logging.Int(logging.FieldDay, doy))
	}

	if sawTransient {
		return Result{Outcome: Transient}, nil
	}
	return Result{Outcome: NotFound}, nil
}

// fetchCandidate performs one candidate's list+download+verify cycle.
// Recoverable misses return Result{Outcome: NotFound}; transient errors are
// returned for the caller to tally; fatal errors propagate.
func (f *Fetcher) fetchCandidate(ctx context.Context, year, doy int, candidate resolver.Candidate, stagingDir string) (Result, error) {
	remotePath := candidate.RemotePath(year, doy)
	pattern := candidate.FilePattern(year, doy)

	entries, err := f.remote.ListDay(ctx, remotePath)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return Result{Outcome: NotFound}, nil
		}
		return Result{}, err
	}

	names := matchEntries(entries, pattern)
	switch len(names) {
	case 0:
		return Result{Outcome: NotFound}, nil
	case 1:
	default:
		// More than one remote file for a single day is ambiguous input;
		// guessing could archive the wrong product.
		return Result{}, services.Wrap(services.ErrValidation, "fetcher", "select remote file",
			fmt.Sprintf("multiple %s files found for year %d doy %03d", candidate.Product, year, doy), nil)
	}

	staged, err := f.remote.Download(ctx, remotePath, names[0], stagingDir)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			// Listed but gone by download time; treat like absent data.
			return Result{Outcome: NotFound}, nil
		}
		return Result{}, err
	}

	matches, err := filepath.Glob(filepath.Join(stagingDir, pattern))
	if err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "fetcher", "verify staging",
			fmt.Sprintf("bad pattern %q", pattern), err)
	}
	switch len(matches) {
	case 0:
		_ = os.Remove(staged)
		return Result{Outcome: NotFound}, nil
	case 1:
		return Result{Outcome: Found, Candidate: candidate, StagedFile: matches[0]}, nil
	default:
		sort.Strings(matches)
		return Result{}, services.Wrap(services.ErrValidation, "fetcher", "verify staging",
			fmt.Sprintf("multiple staged files match %q", pattern), nil)
	}
}

func matchEntries(entries []laads.Entry, pattern string) []string {
	var names []string
	for _, entry := range entries {
		ok, err := filepath.Match(pattern, entry.Name)
		if err == nil && ok {
			names = append(names, entry.Name)
		}
	}
	sort.Strings(names)
	return names
}
