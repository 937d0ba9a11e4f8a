package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ladsync/internal/journal"
	"ladsync/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var runLimit int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show environment health and recent update runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Environment", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusError
				if result.Passed {
					kind = statusOK
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Recent runs", colorize) {
				fmt.Fprintln(out, line)
			}
			store, err := journal.Open(cfg)
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Run journal", statusError, err.Error(), colorize))
				return nil
			}
			defer store.Close()

			summaries, err := store.RecentRuns(cmd.Context(), runLimit)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Fprintln(out, renderStatusLine("Run journal", statusInfo, "no recorded runs", colorize))
				return nil
			}
			fmt.Fprintln(out, renderRunTable(summaries))
			return nil
		},
	}

	cmd.Flags().IntVar(&runLimit, "limit", 10, "Number of recent runs to show")
	return cmd
}

func renderRunTable(summaries []journal.RunSummary) string {
	title := cases.Title(language.Und)
	headers := []string{"Started", "Mode", "Years", "Status", "Archived", "Skipped", "No data", "Failed"}
	aligns := []columnAlignment{
		alignLeft, alignLeft, alignLeft, alignLeft,
		alignRight, alignRight, alignRight, alignRight,
	}

	rows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		run := summary.Run
		years := strconv.Itoa(run.StartYear)
		if run.EndYear != run.StartYear {
			years = fmt.Sprintf("%d-%d", run.StartYear, run.EndYear)
		}
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			title.String(run.Mode),
			years,
			title.String(string(run.Status)),
			strconv.Itoa(summary.Archived),
			strconv.Itoa(summary.Skipped),
			strconv.Itoa(summary.Missing),
			strconv.Itoa(summary.Failed),
		})
	}
	return renderTable(headers, rows, aligns)
}
