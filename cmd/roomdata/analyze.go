package main

import (
	"io"

	"github.com/GriffinCanCode/roomdata/internal/analysis"
	"github.com/GriffinCanCode/roomdata/internal/source"
	"github.com/GriffinCanCode/roomdata/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		jsonOutput bool
		sections   []string
	)

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Report state, battery, connectivity and naming statistics of a dump",
		Long: `Scan a dump with pattern matching and print one table per report.

Sections: device_states, entity_types, battery, occupancy, activity,
connectivity, audio_visual, locations, alerts, states, completeness,
naming, groups.

Examples:
  roomdata analyze                             # Every section as tables
  roomdata analyze --section battery,alerts    # Selected sections
  roomdata analyze --json > report.json        # Full report as JSON`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.inputPath(args)
			text, err := source.ReadFile(path)
			if err != nil {
				return err
			}

			report := analysis.Analyze(text)
			a.log.Info("Analysis complete",
				zap.String("path", path),
				zap.Int("entities", report.Completeness.TotalEntities))

			if jsonOutput {
				data, err := report.JSON()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			tables, err := report.Tables(sections)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), ui.RenderSections(tables))
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the full report as JSON")
	cmd.Flags().StringSliceVar(&sections, "section", nil, "sections to print (default all)")
	return cmd
}
