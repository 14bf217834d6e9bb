package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/focpwm/internal/analysis"
	"github.com/san-kum/focpwm/internal/loop"
	"github.com/san-kum/focpwm/internal/metrics"
)

const (
	historyCapacity = 600
	locusWidth      = 41
	locusHeight     = 21
	barWidth        = 24
	// q command change per key press
	commandStep     = 0.5
)

type TickMsg time.Time

// Model drives a loop.Driver a few periods per frame and renders the latest
// record.
type Model struct {
	driver   *loop.Driver
	cfg      loop.Config
	initial  loop.State
	state    *loop.State
	history  *History
	coverage *metrics.SectorCoverage
	perFrame int
	running  bool
	last     loop.Record
	err      error
}

// NewModel registers the view's history and sector histogram on d. cfg
// describes the routine and command; its period budget is ignored and the
// view runs until quit.
func NewModel(d *loop.Driver, cfg loop.Config, start loop.State, perFrame int) Model {
	if perFrame <= 0 {
		perFrame = 1
	}
	cfg.KeepRecords = false

	h := NewHistory(historyCapacity)
	cov := metrics.NewSectorCoverage()
	d.AddObserver(h)
	d.AddMetric(cov)

	st := start
	return Model{
		driver:   d,
		cfg:      cfg,
		initial:  start,
		state:    &st,
		history:  h,
		coverage: cov,
		perFrame: perFrame,
		running:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			if !m.running {
				m.advance(1)
			}
		case "r":
			m.reset()
		case "up", "k":
			m.cfg.Command.Q += commandStep
		case "down", "j":
			m.cfg.Command.Q -= commandStep
		case "+", "=":
			m.cfg.AngleStep *= 1.25
		case "-", "_":
			m.cfg.AngleStep *= 0.8
		}
	case TickMsg:
		if m.running {
			m.advance(m.perFrame)
		}
		return m, tick()
	}
	return m, nil
}

// advance runs n periods. A collaborator failure pauses the view and is
// shown until reset.
func (m *Model) advance(n int) {
	if m.err != nil {
		return
	}
	cfg := m.cfg
	cfg.Periods = n
	err := m.driver.RunWithCallback(context.Background(), m.state, cfg, func(r loop.Record) bool {
		m.last = r
		return true
	})
	if err != nil {
		m.err = err
		m.running = false
	}
}

// reset restores the starting angle and clears the history and histogram.
func (m *Model) reset() {
	*m.state = m.initial
	m.history.Reset()
	m.coverage.Reset()
	m.last = loop.Record{}
	m.err = nil
}

// State returns the angle accumulator as of the last frame.
func (m Model) State() loop.State {
	return *m.state
}

func (m Model) View() string {
	var s strings.Builder

	title := fmt.Sprintf("%s  table %d", strings.ToUpper(string(m.cfg.Routine)), m.driver.Transformer().Table().Size())
	s.WriteString(headerStyle.Render(title) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(errStyle.Render(m.err.Error()))
	case m.running:
		s.WriteString("RUNNING")
	default:
		s.WriteString("PAUSED")
	}
	s.WriteString("\n\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top, statsStyle.Render(m.stats()), locusStyle.Render(m.locus()))
	s.WriteString(body)
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("space pause • s step • r reset • ↑/↓ iq • +/- speed • q quit"))
	return s.String()
}

func (m Model) stats() string {
	r := m.last
	var s strings.Builder

	s.WriteString(row("period", fmt.Sprintf("%d", m.state.Period)))
	s.WriteString(row("angle", fmt.Sprintf("%.4f rad", m.state.Angle)))
	s.WriteString(row("step", fmt.Sprintf("%.4f rad", m.cfg.AngleStep)))
	s.WriteString(row("command", fmt.Sprintf("id=%.2f iq=%.2f", m.cfg.Command.D, m.cfg.Command.Q)))
	s.WriteString(row("alpha/beta", fmt.Sprintf("%.3f / %.3f", r.Stationary.Alpha, r.Stationary.Beta)))

	if m.cfg.Routine != loop.SVPWM {
		s.WriteString(row("u v w", fmt.Sprintf("%.3f %.3f %.3f", r.Phase.U, r.Phase.V, r.Phase.W)))
		s.WriteString(row("id/iq", fmt.Sprintf("%.3f / %.3f", r.Rotating.D, r.Rotating.Q)))
		return strings.TrimRight(s.String(), "\n")
	}

	p := m.driver.Modulator().Params()
	s.WriteString(row("limit", fmt.Sprintf("%.3f (udc %.1f)", m.driver.Modulator().MaxLinearMagnitude(), p.Udc)))
	s.WriteString(row("sector", activeStyle.Render(fmt.Sprintf("%d", r.Sector))))
	s.WriteString(row("t0 t1 t2", fmt.Sprintf("%.4f %.4f %.4f", r.Times.T0, r.Times.T1, r.Times.T2)))
	s.WriteString(row("counter", fmt.Sprintf("%.0f %.0f %.0f", r.Counter.U, r.Counter.V, r.Counter.W)))
	if r.Saturated {
		s.WriteString(warnStyle.Render("saturated") + "\n")
	}
	s.WriteString("\n")
	s.WriteString(histogram(m.coverage.Histogram(), int(r.Sector)))
	return strings.TrimRight(s.String(), "\n")
}

func (m Model) locus() string {
	if m.history.Len() == 0 {
		return strings.Repeat(strings.Repeat(" ", locusWidth)+"\n", locusHeight)
	}
	return analysis.NewLocus(m.history.Records()).ToASCII(locusWidth, locusHeight)
}

// histogram draws one bar per sector scaled to the most visited one. The
// active sector is highlighted.
func histogram(h [6]int, active int) string {
	peak := 0
	for _, c := range h {
		peak = max(peak, c)
	}

	var s strings.Builder
	for i, c := range h {
		n := 0
		if peak > 0 {
			n = c * barWidth / peak
		}
		label := fmt.Sprintf("S%d ", i+1)
		if i+1 == active {
			label = activeStyle.Render(label)
		}
		s.WriteString(label + barStyle.Render(strings.Repeat("█", n)) + fmt.Sprintf(" %d\n", c))
	}
	return s.String()
}
