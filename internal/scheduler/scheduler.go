// Package scheduler drives update runs: it plans the year list, walks each
// year's days newest first, and moves every fetched file through gap-filling
// into the archive. One failed day never stops the run; fatal conditions
// (bad credentials, broken configuration) abort it immediately.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"ladsync/internal/archive"
	"ladsync/internal/dates"
	"ladsync/internal/fetcher"
	"ladsync/internal/gapfill"
	"ladsync/internal/journal"
	"ladsync/internal/logging"
	"ladsync/internal/resolver"
	"ladsync/internal/services"
)

// DayFetcher is the slice of the fetcher the scheduler needs.
type DayFetcher interface {
	FetchDay(ctx context.Context, year, doy int, candidates []resolver.Candidate) (fetcher.Result, error)
}

// Placer moves a processed file into its archive year directory.
type Placer interface {
	Place(src string, year int) (string, error)
}

// Recorder persists run and day outcomes. The scheduler never reads it back;
// skip decisions come from the archive index alone.
type Recorder interface {
	BeginRun(ctx context.Context, id, mode string, startYear, endYear int) error
	RecordDay(ctx context.Context, result journal.DayResult) error
	FinishRun(ctx context.Context, id string, status journal.RunStatus, errMessage string) error
}

// Stats aggregates day outcomes across a run.
type Stats struct {
	Archived int
	Skipped  int
	Missing  int
	Failed   int
}

func (s *Stats) add(other Stats) {
	s.Archived += other.Archived
	s.Skipped += other.Skipped
	s.Missing += other.Missing
	s.Failed += other.Failed
}

// Days returns the total number of days visited.
func (s Stats) Days() int {
	return s.Archived + s.Skipped + s.Missing + s.Failed
}

// Scheduler wires the fetch, gap-fill, and archive stages together.
type Scheduler struct {
	fetch    DayFetcher
	fill     gapfill.Runner
	index    archive.Index
	placer   Placer
	resolver *resolver.Resolver
	recorder Recorder
	logger   *slog.Logger

	lockPath string
	lagDays  int
	now      func() time.Time
}

// Option adjusts scheduler construction.
type Option func(*Scheduler)

// WithRecorder attaches a run journal.
func WithRecorder(recorder Recorder) Option {
	return func(s *Scheduler) { s.recorder = recorder }
}

// WithLockPath sets the run lock file location. Empty disables locking,
// which only tests should do.
func WithLockPath(path string) Option {
	return func(s *Scheduler) { s.lockPath = path }
}

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Scheduler.
func New(fetch DayFetcher, fill gapfill.Runner, index archive.Index, placer Placer,
	res *resolver.Resolver, lagDays int, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		fetch:    fetch,
		fill:     fill,
		index:    index,
		placer:   placer,
		resolver: res,
		logger:   logging.NewComponentLogger(logger, "scheduler"),
		lagDays:  lagDays,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes a planned update under an exclusive run lock. Day-level
// failures are tallied and the run keeps going; a returned error means the
// run aborted.
func (s *Scheduler) Run(ctx context.Context, plan Plan) (Stats, error) {
	if len(plan.Years) == 0 {
		return Stats{}, services.Wrap(services.ErrValidation, "scheduler", "run",
			"empty year plan", nil)
	}

	if s.lockPath != "" {
		lock := flock.New(s.lockPath)
		ok, err := lock.TryLock()
		if err != nil {
			return Stats{}, services.Wrap(services.ErrConfiguration, "scheduler", "run",
				fmt.Sprintf("acquire run lock %s", s.lockPath), err)
		}
		if !ok {
			return Stats{}, services.Wrap(services.ErrValidation, "scheduler", "run",
				"another update run holds the lock", nil)
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				s.logger.Warn("failed to release run lock", logging.Error(err))
			}
		}()
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, s.logger)

	// Dropped only for this run; the next Run gets the journal back.
	recorder := s.recorder
	if recorder != nil {
		if err := recorder.BeginRun(ctx, runID, string(plan.Mode), plan.StartYear(), plan.EndYear()); err != nil {
			logger.Warn("journal unavailable, continuing without it", logging.Error(err))
			recorder = nil
		}
	}

	logger.Info("update run started",
		logging.String("mode", string(plan.Mode)),
		logging.Int("start_year", plan.StartYear()),
		logging.Int("end_year", plan.EndYear()))

	var total Stats
	for _, year := range plan.Years {
		stats, err := s.processYear(ctx, recorder, runID, year, plan.Mode)
		total.add(stats)
		if err != nil {
			s.finishRun(ctx, recorder, runID, journal.RunFailed, err)
			return total, err
		}
	}

	s.finishRun(ctx, recorder, runID, journal.RunSucceeded, nil)
	logger.Info("update run finished",
		logging.Int("archived", total.Archived),
		logging.Int("skipped", total.Skipped),
		logging.Int("missing", total.Missing),
		logging.Int("failed", total.Failed))
	return total, nil
}

func (s *Scheduler) finishRun(ctx context.Context, recorder Recorder, runID string, status journal.RunStatus, runErr error) {
	if recorder == nil {
		return
	}
	message := ""
	if runErr != nil {
		message = runErr.Error()
	}
	if err := recorder.FinishRun(ctx, runID, status, message); err != nil {
		s.logger.Warn("failed to record run completion", logging.Error(err))
	}
}

// processYear walks one year's days from the last processable day back to
// day 1.
func (s *Scheduler) processYear(ctx context.Context, recorder Recorder, runID string, year int, mode Mode) (Stats, error) {
	yearCtx := services.WithYear(ctx, year)
	logger := logging.WithContext(yearCtx, s.logger)

	lastDay, ok := dates.LastProcessableDay(year, s.now(), s.lagDays)
	if !ok {
		logger.Info("year not yet processable, skipping",
			logging.Int("lag_days", s.lagDays))
		return Stats{}, nil
	}
	if lastDay > dates.DaysInYear(year) {
		lastDay = dates.DaysInYear(year)
	}

	candidates, err := s.resolver.Candidates(year)
	if err != nil {
		return Stats{}, err
	}

	logger.Info("processing year",
		logging.Int("last_day", lastDay),
		logging.String("top_platform", candidates[0].Platform))

	var stats Stats
	for doy := lastDay; doy >= 1; doy-- {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		dayCtx := services.WithDay(yearCtx, doy)

		outcome, err := s.processDay(dayCtx, year, doy, candidates, mode)
		if err != nil {
			return stats, err
		}
		s.recordDay(dayCtx, recorder, runID, year, doy, outcome)
		switch outcome.Outcome {
		case journal.DayArchived:
			stats.Archived++
		case journal.DaySkipped:
			stats.Skipped++
		case journal.DayMissing:
			stats.Missing++
		case journal.DayFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

// dayOutcome carries one day's journal entry fields before persistence.
type dayOutcome struct {
	Outcome  journal.DayOutcome
	Platform string
	Detail   string
}

// processDay runs the skip check, fetch, gap-fill, and archive placement for
// one day. Only fatal errors are returned; everything else becomes an
// outcome.
func (s *Scheduler) processDay(ctx context.Context, year, doy int, candidates []resolver.Candidate, mode Mode) (dayOutcome, error) {
	logger := logging.WithContext(ctx, s.logger)

	// Incremental mode trusts only the archive itself: a file for the
	// top-priority platform means the day is done. A lower-priority file does
	// not count, so the day stays eligible for an upgrade.
	if mode == ModeToday {
		exists, err := s.index.Exists(year, doy, candidates[0])
		if err != nil {
			return dayOutcome{}, err
		}
		if exists {
			logger.Debug("already archived at top priority")
			return dayOutcome{Outcome: journal.DaySkipped, Platform: candidates[0].Platform}, nil
		}
	}

	result, err := s.fetch.FetchDay(ctx, year, doy, candidates)
	if err != nil {
		return dayOutcome{}, err
	}

	switch result.Outcome {
	case fetcher.NotFound:
		return dayOutcome{Outcome: journal.DayMissing}, nil
	case fetcher.Transient:
		logger.Warn("day abandoned after transient failures")
		return dayOutcome{
			Outcome: journal.DayFailed,
			Detail:  "transient failures exhausted retry budget",
		}, nil
	}

	filled, err := s.fill.Fill(ctx, result.StagedFile)
	if err != nil {
		if services.IsFatal(err) {
			return dayOutcome{}, err
		}
		logger.Warn("gap-fill failed, day abandoned", logging.Error(err))
		return dayOutcome{
			Outcome:  journal.DayFailed,
			Platform: result.Candidate.Platform,
			Detail:   err.Error(),
		}, nil
	}

	archived, err := s.placer.Place(filled, year)
	if err != nil {
		if services.IsFatal(err) {
			return dayOutcome{}, err
		}
		logger.Warn("archive placement failed, day abandoned", logging.Error(err))
		return dayOutcome{
			Outcome:  journal.DayFailed,
			Platform: result.Candidate.Platform,
			Detail:   err.Error(),
		}, nil
	}

	logger.Info("day archived",
		logging.String("platform", result.Candidate.Platform),
		logging.String("file", archived))
	return dayOutcome{Outcome: journal.DayArchived, Platform: result.Candidate.Platform}, nil
}

func (s *Scheduler) recordDay(ctx context.Context, recorder Recorder, runID string, year, doy int, outcome dayOutcome) {
	if recorder == nil {
		return
	}
	err := recorder.RecordDay(ctx, journal.DayResult{
		RunID:    runID,
		Year:     year,
		DOY:      doy,
		Platform: outcome.Platform,
		Outcome:  outcome.Outcome,
		Detail:   outcome.Detail,
	})
	if err != nil {
		s.logger.Warn("failed to record day outcome", logging.Error(err))
	}
}
