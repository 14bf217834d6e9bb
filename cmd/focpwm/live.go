package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/focpwm/internal/experiment"
	"github.com/san-kum/focpwm/internal/logger"
	"github.com/san-kum/focpwm/internal/viz"
)

var (
	perFrame   int
	liveOutput string
)

func runLive(cmd *cobra.Command, args []string) error {
	output = liveOutput
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	// the view owns the terminal
	cfg.Telemetry.Stdout = false

	s, err := openSinks(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	exp := experiment.New(cfg)
	if err := exp.Setup(s.output, s.telemetry); err != nil {
		return err
	}

	m := viz.NewModel(exp.Driver(), exp.LoopConfig(), exp.State(), perFrame)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(viz.Model); ok {
		st := fm.State()
		logger.L().Debugw("live view closed", "period", st.Period, "angle", st.Angle)
	}
	return nil
}
