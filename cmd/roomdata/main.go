// Command roomdata extracts, analyses and repairs Home Assistant room data.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/GriffinCanCode/roomdata/internal/config"
	"github.com/GriffinCanCode/roomdata/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/roomdata/internal/logging"
	"github.com/GriffinCanCode/roomdata/internal/shared/id"
	"github.com/GriffinCanCode/roomdata/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{}
	return a.execute(args, stdout, stderr)
}

// app carries the state shared by every sub-command of one run.
type app struct {
	cfg     *config.Config
	log     *logging.Logger
	metrics *monitoring.Metrics
	runID   id.RunID
	command string

	logLevel    string
	logDev      bool
	metricsFile string
}

func (a *app) execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	a.finish()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "roomdata",
		Short: "Room entity data tools",
		Long: `Tools for Home Assistant room entity data.

Examples:
  roomdata extract                         # Extract records from mockup-Room_entity_data.json
  roomdata analyze --section battery dump  # Battery report for a dump
  roomdata fix-attrs 'posters/**/*.html'   # Compact JSON attributes in poster pages
  roomdata dump-attrs mockup.js            # Print entity_id and attributes of a JS dump
  roomdata fetch --locations locs.json     # Fetch live states and map them to locations`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (env ROOMDATA_LOG_LEVEL)")
	flags.BoolVar(&a.logDev, "log-dev", false, "human readable development logs (env ROOMDATA_LOG_DEV)")
	flags.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile (env ROOMDATA_METRICS_FILE)")

	root.AddCommand(
		newExtractCmd(a),
		newAnalyzeCmd(a),
		newFixAttrsCmd(a),
		newDumpAttrsCmd(a),
		newFetchCmd(a),
	)
	return root
}

// setup loads configuration, applies flag overrides and builds the run's
// logger and metrics.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-dev") {
		cfg.Logging.Development = a.logDev
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.File = a.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	a.cfg = cfg

	ui.ConfigureColor()

	a.command = cmd.Name()
	a.runID = id.NewRunID()
	if a.log == nil {
		a.log = logging.FromConfig(cfg.Logging.Level, cfg.Logging.Development)
	}
	a.log = a.log.WithRun(a.runID.String(), a.command)
	a.metrics = monitoring.NewMetrics()

	a.log.Debug("Starting", zap.String("version", version))
	return nil
}

// finish flushes metrics and logs. It is a no-op when setup never ran.
func (a *app) finish() {
	if a.metrics == nil {
		return
	}
	a.metrics.Finish(a.command)
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.File); err != nil {
		a.log.Warn("Failed to write metrics", zap.Error(err))
	}
	_ = a.log.Sync()
}

// inputPath returns the first argument or the configured default dump.
func (a *app) inputPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.cfg.Input.Path
}

const version = "0.1.0"
