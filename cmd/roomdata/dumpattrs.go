package main

import (
	"time"

	"github.com/GriffinCanCode/roomdata/internal/jsdump"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// defaultJSDump is the JS module read when dump-attrs gets no path.
const defaultJSDump = "mockup-Room_entity_data.js"

func newDumpAttrsCmd(a *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "dump-attrs [path]",
		Short: "Print entity_id and attributes of a JavaScript entity dump",
		Long: `Evaluate a JavaScript module exporting ROOM_ENTITY_MAP in a sandbox and
print the entity_id and attributes of every element as JSON.

The sandbox has no require, process, module or exports and stops after
--timeout.

Examples:
  roomdata dump-attrs                          # Read mockup-Room_entity_data.js
  roomdata dump-attrs src/data/rooms.js > attrs.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultJSDump
			if len(args) > 0 {
				path = args[0]
			}

			cfg := jsdump.DefaultConfig()
			cfg.Timeout = timeout
			res, err := jsdump.New(cfg, a.log).DumpFile(cmd.Context(), path)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(res.JSON); err != nil {
				return err
			}

			a.log.Info("Dump evaluated", zap.String("path", path), zap.Int("entities", res.Entities))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", jsdump.DefaultConfig().Timeout, "maximum script execution time")
	return cmd
}
