package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ladsync/internal/archive"
	"ladsync/internal/fetcher"
	"ladsync/internal/gapfill"
	"ladsync/internal/journal"
	"ladsync/internal/laads"
	"ladsync/internal/preflight"
	"ladsync/internal/resolver"
	"ladsync/internal/scheduler"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var (
		today         bool
		quarterly     bool
		startYear     int
		endYear       int
		skipPreflight bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Fetch, gap-fill, and archive daily auxiliary files",
		Long: `Update walks each planned year's days newest first, downloads the best
available platform file for every day, runs the gap-filling transform, and
moves the result into the archive. --today performs an incremental run that
skips days already archived at top priority; --quarterly and explicit year
ranges reprocess everything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			plan, err := buildPlan(today, quarterly, startYear, endYear)
			if err != nil {
				return err
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if !skipPreflight {
				results := preflight.RunAll(runCtx, cfg)
				if !preflight.Passed(results) {
					out := cmd.ErrOrStderr()
					for _, result := range results {
						if !result.Passed {
							fmt.Fprintf(out, "preflight: %s: %s\n", result.Name, result.Detail)
						}
					}
					return fmt.Errorf("preflight checks failed; fix the environment or pass --skip-preflight")
				}
			}

			client, err := laads.New(laads.Config{
				BaseURL:     cfg.LAADS.BaseURL,
				Token:       cfg.LAADS.Token,
				UserAgent:   cfg.LAADS.UserAgent,
				RetryBudget: cfg.Fetch.RetryBudget,
				RetryDelay:  cfg.RetryDelay(),
				Logger:      logger,
			})
			if err != nil {
				return err
			}

			layout := archive.NewLayout(cfg.Paths.AuxDir)
			fetch := fetcher.New(client, cfg.Paths.StagingDir, logger)
			fill := gapfill.NewCLI(gapfill.WithBinary(cfg.GapfillBinary()), gapfill.WithLogger(logger))

			// One run per archive root, no matter whose config points at it.
			opts := []scheduler.Option{
				scheduler.WithLockPath(filepath.Join(cfg.Paths.AuxDir, ".update.lock")),
			}
			store, err := journal.Open(cfg)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warn: run journal unavailable: %v\n", err)
			} else {
				defer store.Close()
				opts = append(opts, scheduler.WithRecorder(store))
			}

			sched := scheduler.New(fetch, fill, layout, layout,
				resolver.New(cfg.CutoverDate()), cfg.Fetch.LagDays, logger, opts...)

			stats, err := sched.Run(runCtx, plan)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Update complete: %d archived, %d skipped, %d without data, %d failed (%d days)\n",
				stats.Archived, stats.Skipped, stats.Missing, stats.Failed, stats.Days())
			return nil
		},
	}

	cmd.Flags().BoolVar(&today, "today", false, "Incremental run over recent days, skipping archived ones")
	cmd.Flags().BoolVar(&quarterly, "quarterly", false, "Reprocess every year since the newest platform started")
	cmd.Flags().IntVar(&startYear, "start-year", 0, "First year to reprocess")
	cmd.Flags().IntVar(&endYear, "end-year", 0, "Last year to reprocess (defaults to the current year)")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip environment checks before the run")
	cmd.MarkFlagsMutuallyExclusive("today", "quarterly", "start-year")

	return cmd
}

func buildPlan(today, quarterly bool, startYear, endYear int) (scheduler.Plan, error) {
	now := time.Now().UTC()
	switch {
	case today:
		return scheduler.PlanToday(now), nil
	case quarterly:
		return scheduler.PlanQuarterly(now), nil
	case startYear != 0:
		if endYear == 0 {
			endYear = now.Year()
		}
		return scheduler.PlanRange(startYear, endYear, now)
	case endYear != 0:
		return scheduler.Plan{}, fmt.Errorf("--end-year requires --start-year")
	default:
		return scheduler.Plan{}, fmt.Errorf("choose one of --today, --quarterly, or --start-year")
	}
}
