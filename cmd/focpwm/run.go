package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/san-kum/focpwm/internal/config"
	"github.com/san-kum/focpwm/internal/experiment"
	"github.com/san-kum/focpwm/internal/logger"
	"github.com/san-kum/focpwm/internal/loop"
	"github.com/san-kum/focpwm/internal/pwm"
	"github.com/san-kum/focpwm/internal/storage"
	"github.com/san-kum/focpwm/internal/telemetry"
)

// resolveConfig layers preset, config file and explicit flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Routine = routine

	if preset != "" {
		p := config.GetPreset(routine, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(routine))
		}
		cfg.Routine = p.Routine
		cfg.Modulator = p.Modulator
		cfg.TableSize = p.TableSize
		cfg.Command = p.Command
		logger.L().Debugw("applied preset", "routine", routine, "preset", preset)
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
		if cmd.Flags().Changed("routine") {
			cfg.Routine = routine
		}
		if !cmd.Flags().Changed("log-level") {
			logger.SetLogLevel(cfg.LogLevel)
		}
		logger.L().Debugw("loaded config", "path", configFile)
	}

	flags := cmd.Flags()
	if flags.Changed("id") {
		cfg.Command.Id = id
	}
	if flags.Changed("iq") {
		cfg.Command.Iq = iq
	}
	if flags.Changed("step") {
		cfg.Command.AngleStep = angleStep
	}
	if flags.Changed("start") {
		cfg.Command.StartAngle = startAngle
	}
	if flags.Changed("periods") {
		cfg.Command.Periods = periods
	}
	if flags.Changed("udc") {
		cfg.Modulator.Udc = udc
	}
	if flags.Changed("ts") {
		cfg.Modulator.Ts = ts
	}
	if flags.Changed("max-counter") {
		cfg.Modulator.MaxCounter = maxCounter
	}
	if flags.Changed("table") {
		cfg.TableSize = tableSize
	}

	if flags.Lookup("output") != nil {
		if flags.Changed("output") || configFile == "" {
			cfg.Output.Driver = output
		}
		if csvStdout {
			cfg.Telemetry.Stdout = true
		}
		if logRecords {
			cfg.Telemetry.Log = true
		}
		if serialDev != "" {
			cfg.Telemetry.Serial = &config.SerialConfig{Device: serialDev, Baud: serialBaud}
		}
		if mqttBroker != "" {
			cfg.Telemetry.MQTT = &config.MQTTConfig{Broker: mqttBroker, Topic: mqttTopic, ClientID: "focpwm-" + uuid.NewString()[:8]}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type sinks struct {
	output    loop.PWMOutput
	telemetry loop.Telemetry
	closers   []io.Closer
	flushers  []func() error
}

func (s *sinks) Close() {
	for _, f := range s.flushers {
		if err := f(); err != nil {
			logger.L().Warnw("flush telemetry", "error", err)
		}
	}
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			logger.L().Warnw("close sink", "error", err)
		}
	}
}

func openSinks(cfg *config.Config) (*sinks, error) {
	s := &sinks{}

	switch cfg.Output.Driver {
	case "rpio":
		out, err := pwm.OpenRPIO(cfg.Output.Pins[:], cfg.Output.Frequency, uint32(cfg.Modulator.MaxCounter))
		if err != nil {
			return nil, err
		}
		s.output = out
		s.closers = append(s.closers, out)
	case "recorder":
		s.output = pwm.NewRecorder(1)
	}

	var multi telemetry.Multi
	if cfg.Telemetry.Stdout {
		c := telemetry.NewCSV(os.Stdout)
		s.flushers = append(s.flushers, c.Flush)
		multi = append(multi, c)
	}
	if sc := cfg.Telemetry.Serial; sc != nil {
		port, err := telemetry.OpenSerial(sc.Device, sc.Baud)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, port)
		multi = append(multi, port)
	}
	if mc := cfg.Telemetry.MQTT; mc != nil {
		m, err := telemetry.DialMQTT(mc.Broker, mc.ClientID, mc.Topic, mc.QoS)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, m)
		multi = append(multi, m)
	}
	if cfg.Telemetry.Log {
		multi = append(multi, telemetry.NewLog(logger.L()))
	}

	switch len(multi) {
	case 0:
	case 1:
		s.telemetry = multi[0]
	default:
		s.telemetry = multi
	}
	return s, nil
}

func runRoutine(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	s, err := openSinks(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	exp := experiment.New(cfg)
	if err := exp.Setup(s.output, s.telemetry); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	elapsed := time.Since(start)
	if result == nil {
		return err
	}

	runID := ""
	if !noSave {
		st := openStore()
		if err := st.Init(); err != nil {
			return err
		}
		if runID, err = st.Save(cfg, result); err != nil {
			return err
		}
	}

	out := os.Stdout
	if cfg.Telemetry.Stdout {
		out = os.Stderr
	}
	fmt.Fprintln(out, summary(runID, cfg, result, elapsed))
	return nil
}

func summary(runID string, cfg *config.Config, result *loop.Result, elapsed time.Duration) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s  %d periods in %v", result.Routine, result.Periods, elapsed.Round(time.Microsecond))))
	sb.WriteString("\n\n")
	if runID != "" {
		sb.WriteString(row("run id", runID))
	}
	sb.WriteString(row("command", fmt.Sprintf("id=%.3f iq=%.3f", cfg.Command.Id, cfg.Command.Iq)))
	if result.Routine == loop.SVPWM {
		sb.WriteString(row("bus", fmt.Sprintf("udc=%.2f ts=%.3f max=%.0f", cfg.Modulator.Udc, cfg.Modulator.Ts, cfg.Modulator.MaxCounter)))
		if result.Saturated > 0 {
			sb.WriteString(warnStyle.Render(fmt.Sprintf("%d periods saturated", result.Saturated)))
			sb.WriteString("\n")
		}
	}

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString(row(name, fmt.Sprintf("%.6f", result.Metrics[name])))
	}

	return panelStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

func openStore() *storage.Store {
	return storage.New(dataDir)
}
