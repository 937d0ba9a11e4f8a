package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ladsync/internal/archive"
	"ladsync/internal/dates"
	"ladsync/internal/reflectance"
	"ladsync/internal/resolver"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <date|scene.xml>",
		Short: "Print the auxiliary file a date or scene resolves to",
		Long: `Resolve maps an acquisition date (YYYY-MM-DD) or a Sentinel-2 scene XML
filename to the auxiliary product family and the auxiliary filename the
surface-reflectance algorithm must be given. Current-generation dates are
looked up in the archive; an unarchived date is an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			date, err := parseDateArg(args[0])
			if err != nil {
				return err
			}

			selector := reflectance.NewSelector(
				resolver.New(cfg.CutoverDate()), archive.NewLayout(cfg.Paths.AuxDir))
			name, family, err := selector.AuxFilename(date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date:      %s (doy %03d)\n", date, date.DayOfYear())
			fmt.Fprintf(out, "Family:    %s\n", family)
			fmt.Fprintf(out, "Auxiliary: %s\n", name)
			return nil
		},
	}
	return cmd
}

// parseDateArg accepts a calendar date or a Sentinel-2 scene XML filename.
func parseDateArg(arg string) (dates.AcquisitionDate, error) {
	trimmed := strings.TrimSpace(arg)
	if strings.HasSuffix(strings.ToLower(trimmed), ".xml") {
		return reflectance.ParseSceneDate(trimmed)
	}
	for _, layout := range []string{"2006-01-02", "20060102"} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return dates.FromTime(t), nil
		}
	}
	return dates.AcquisitionDate{}, fmt.Errorf("cannot parse %q as a date (YYYY-MM-DD) or scene XML name", arg)
}
