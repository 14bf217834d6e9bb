package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/focpwm/internal/config"
	"github.com/san-kum/focpwm/internal/experiment"
	"github.com/san-kum/focpwm/internal/logger"
)

var (
	dataDir  string
	logLevel string
	// run flags
	routine    string
	preset     string
	configFile string
	id         float64
	iq         float64
	angleStep  float64
	startAngle float64
	periods    int
	udc        float64
	ts         float64
	maxCounter float64
	tableSize  int
	output     string
	csvStdout  bool
	serialDev  string
	serialBaud int
	mqttBroker string
	mqttTopic  string
	logRecords bool
	noSave     bool
	// inspection flags
	series  []string
	outPath string
	svgSize int
	// single-shot flags
	theta float64
)

func main() {
	defer logger.Close()

	rootCmd := &cobra.Command{
		Use:           "focpwm",
		Short:         "field-oriented control transforms and space-vector pwm",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("log-level") {
				return nil
			}
			lvl, err := zapcore.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLogLevel(lvl)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".focpwm", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a routine for a number of periods and store the records",
		Args:  cobra.NoArgs,
		RunE:  runRoutine,
	}
	addCommandFlags(runCmd)
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&output, "output", "recorder", "pwm output (none, recorder, rpio)")
	runCmd.Flags().BoolVar(&csvStdout, "stdout", false, "stream csv records to stdout")
	runCmd.Flags().StringVar(&serialDev, "serial", "", "stream csv records to a serial device")
	runCmd.Flags().IntVar(&serialBaud, "baud", config.DefaultBaud, "serial baud rate")
	runCmd.Flags().StringVar(&mqttBroker, "mqtt", "", "publish records to an mqtt broker (tcp://host:1883)")
	runCmd.Flags().StringVar(&mqttTopic, "topic", config.DefaultMQTTTopic, "mqtt topic")
	runCmd.Flags().BoolVar(&logRecords, "log-records", false, "log every record at debug level")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run series in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&series, "series", nil, "series to plot (default depends on routine)")

	locusCmd := &cobra.Command{
		Use:   "locus [run_id]",
		Short: "draw the alpha/beta locus in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  locusRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum and harmonic distortion of a series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringSliceVar(&series, "series", nil, "series to analyze (default depends on routine)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the space-vector locus to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 600, "image size in pixels")

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "export run series to a PNG plot",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.png)")
	exportPNGCmd.Flags().StringSliceVar(&series, "series", nil, "series to plot (default depends on routine)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return openStore().ExportJSON(args[0], outPath)
		},
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [routine]",
		Short: "list routines or the presets of a routine",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	transformCmd := &cobra.Command{
		Use:   "transform [u] [v] [w]",
		Short: "clarke and park of one three-phase sample",
		Args:  cobra.ExactArgs(3),
		RunE:  transformOnce,
	}
	transformCmd.Flags().Float64Var(&theta, "theta", 0, "rotor angle in radians")
	transformCmd.Flags().IntVar(&tableSize, "table", config.DefaultTableSize, "sine table size")

	svpwmCmd := &cobra.Command{
		Use:   "svpwm [alpha] [beta]",
		Short: "sector, vector times and compare values of one voltage vector",
		Args:  cobra.ExactArgs(2),
		RunE:  svpwmOnce,
	}
	svpwmCmd.Flags().Float64Var(&udc, "udc", config.DefaultUdc, "dc bus voltage")
	svpwmCmd.Flags().Float64Var(&ts, "ts", config.DefaultTs, "switching period")
	svpwmCmd.Flags().Float64Var(&maxCounter, "max-counter", config.DefaultMaxCounter, "timer counter full scale")

	sweepCmd := &cobra.Command{
		Use:   "sweep [param=lo:hi:n]...",
		Short: "evaluate run metrics over a parameter grid",
		Args:  cobra.MinimumNArgs(1),
		RunE:  sweepRun,
	}
	addCommandFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().StringVar(&sweepMetric, "minimize", "", "report the grid point minimizing this metric")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scripted sequence of routines",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a routine with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addCommandFlags(liveCmd)
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&liveOutput, "output", "none", "pwm output (none, recorder, rpio)")
	liveCmd.Flags().IntVar(&perFrame, "per-frame", 2, "periods per frame")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, locusCmd, analyzeCmd, exportSVGCmd, exportPNGCmd, exportJSONCmd, presetsCmd, transformCmd, svpwmCmd, sweepCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.L().Error(err)
		logger.Close()
		os.Exit(1)
	}
}

func addCommandFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&routine, "routine", config.DefaultRoutine, fmt.Sprintf("routine %v", experiment.NewRegistry().ListRoutines()))
	cmd.Flags().Float64Var(&id, "id", 0, "d-axis command")
	cmd.Flags().Float64Var(&iq, "iq", config.DefaultIq, "q-axis command")
	cmd.Flags().Float64Var(&angleStep, "step", config.DefaultAngleStep, "angle advance per period (rad)")
	cmd.Flags().Float64Var(&startAngle, "start", 0, "initial angle (rad)")
	cmd.Flags().IntVar(&periods, "periods", config.DefaultPeriods, "number of periods")
	cmd.Flags().Float64Var(&udc, "udc", config.DefaultUdc, "dc bus voltage")
	cmd.Flags().Float64Var(&ts, "ts", config.DefaultTs, "switching period")
	cmd.Flags().Float64Var(&maxCounter, "max-counter", config.DefaultMaxCounter, "timer counter full scale")
	cmd.Flags().IntVar(&tableSize, "table", config.DefaultTableSize, "sine table size (power of two)")
}
