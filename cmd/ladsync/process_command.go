package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ladsync/internal/archive"
	"ladsync/internal/reflectance"
	"ladsync/internal/resolver"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <scene.xml>",
		Short: "Run surface reflectance over a Sentinel-2 scene",
		Long: `Process parses the acquisition date from the scene XML filename, resolves
the matching auxiliary file, and runs the surface-reflectance executable from
the scene directory. Outputs land next to the scene XML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			xmlPath := args[0]
			date, err := reflectance.ParseSceneDate(xmlPath)
			if err != nil {
				return err
			}

			selector := reflectance.NewSelector(
				resolver.New(cfg.CutoverDate()), archive.NewLayout(cfg.Paths.AuxDir))
			auxFile, family, err := selector.AuxFilename(date)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			processor := reflectance.NewProcessor(
				reflectance.WithBinary(cfg.LasrcBinary()), reflectance.WithLogger(logger))
			if err := processor.Process(runCtx, xmlPath, auxFile); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Surface reflectance complete for %s (%s auxiliary %s)\n",
				date, family, auxFile)
			return nil
		},
	}
	return cmd
}
