package viz

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/focpwm/internal/foc"
	"github.com/san-kum/focpwm/internal/loop"
)

type failingOutput struct{ after, n int }

func (f *failingOutput) Commit(channel int, c foc.PWMCounter) error {
	f.n++
	if f.n > f.after {
		return errors.New("timer fault")
	}
	return nil
}

func newTestModel(t *testing.T, perFrame int) Model {
	t.Helper()
	mod, err := foc.NewModulator(foc.DefaultModulatorParams())
	if err != nil {
		t.Fatal(err)
	}
	d := loop.New(nil, mod)
	cfg := loop.Config{Routine: loop.SVPWM, Command: foc.Rotating{Q: 3}, AngleStep: 0.1, Periods: 1}
	return NewModel(d, cfg, loop.State{}, perFrame)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return mm
}

func frames(t *testing.T, m Model, n int) Model {
	t.Helper()
	for i := 0; i < n; i++ {
		m = update(t, m, TickMsg(time.Now()))
	}
	return m
}

func TestHistory_Capacity(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.OnRecord(loop.Record{Period: i})
	}
	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}
	if got := h.Records()[0].Period; got != 3 {
		t.Errorf("oldest period = %d, want 3", got)
	}
	h.Reset()
	if h.Len() != 0 {
		t.Errorf("Len after reset = %d", h.Len())
	}
}

func TestModel_TickAdvances(t *testing.T) {
	m := frames(t, newTestModel(t, 4), 15)

	st := m.State()
	if st.Period != 60 {
		t.Fatalf("period = %d, want 60", st.Period)
	}
	if m.history.Len() != 60 {
		t.Errorf("history holds %d records, want 60", m.history.Len())
	}
	if m.last.Period != 60 {
		t.Errorf("last record period = %d", m.last.Period)
	}
	for i, c := range m.coverage.Histogram() {
		if c == 0 {
			t.Errorf("sector %d never visited in a full revolution", i+1)
		}
	}
}

func TestModel_PauseAndStep(t *testing.T) {
	m := newTestModel(t, 2)
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.running {
		t.Fatal("space should pause")
	}

	m = frames(t, m, 5)
	if m.State().Period != 0 {
		t.Fatalf("paused view advanced to period %d", m.State().Period)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if m.State().Period != 1 {
		t.Errorf("single step left period %d", m.State().Period)
	}
}

func TestModel_CommandKeys(t *testing.T) {
	m := newTestModel(t, 1)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cfg.Command.Q != 4 {
		t.Errorf("iq = %v, want 4", m.cfg.Command.Q)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cfg.Command.Q != 3.5 {
		t.Errorf("iq = %v, want 3.5", m.cfg.Command.Q)
	}

	m = frames(t, m, 1)
	if m.last.Rotating.Q != 3.5 {
		t.Errorf("record carries iq %v", m.last.Rotating.Q)
	}
}

func TestModel_Reset(t *testing.T) {
	m := frames(t, newTestModel(t, 3), 4)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})

	if st := m.State(); st.Period != 0 || st.Angle != 0 {
		t.Errorf("state after reset = %+v", st)
	}
	if m.history.Len() != 0 {
		t.Errorf("history not cleared: %d", m.history.Len())
	}
	if m.coverage.Value() != 0 {
		t.Errorf("histogram not cleared: %v", m.coverage.Histogram())
	}
}

func TestModel_OutputFailurePauses(t *testing.T) {
	m := newTestModel(t, 4)
	m.driver.SetOutput(&failingOutput{after: 6})

	m = frames(t, m, 3)
	if m.running || m.err == nil {
		t.Fatalf("running=%v err=%v, want paused on error", m.running, m.err)
	}
	var re *loop.RunError
	if !errors.As(m.err, &re) || re.Period != 7 {
		t.Errorf("err = %v, want failure at period 7", m.err)
	}
	if !strings.Contains(m.View(), "timer fault") {
		t.Error("view does not show the failure")
	}
}

func TestModel_View(t *testing.T) {
	m := frames(t, newTestModel(t, 8), 2)
	v := m.View()
	for _, want := range []string{"SVPWM", "table 512", "sector", "counter", "S1", "S6", "RUNNING"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
