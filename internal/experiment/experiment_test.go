package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/focpwm/internal/config"
	"github.com/san-kum/focpwm/internal/loop"
	"github.com/san-kum/focpwm/internal/pwm"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	names := r.ListRoutines()
	if len(names) != 3 || names[0] != "clarke-park" || names[2] != "svpwm" {
		t.Errorf("ListRoutines() = %v", names)
	}
	if _, err := r.Describe("svpwm"); err != nil {
		t.Error(err)
	}
	if _, err := r.Describe("nope"); err == nil {
		t.Error("expected error for unknown routine")
	}
	if m := r.DefaultMetrics(loop.SVPWM); len(m) != 3 {
		t.Errorf("expected 3 svpwm metrics, got %d", len(m))
	}
	if m := r.DefaultMetrics("nope"); m != nil {
		t.Error("expected nil metrics for unknown routine")
	}

	// instances are fresh per call
	a := r.DefaultMetrics(loop.SVPWM)
	b := r.DefaultMetrics(loop.SVPWM)
	if a[0] == b[0] {
		t.Error("DefaultMetrics shares instances")
	}
}

func TestExperiment_NotSetup(t *testing.T) {
	e := New(config.DefaultConfig())
	if _, err := e.Run(context.Background()); err == nil {
		t.Error("expected error before Setup")
	}
}

func TestExperiment_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TableSize = 300
	if err := New(cfg).Setup(nil, nil); err == nil {
		t.Error("expected error for invalid table size")
	}

	cfg = config.DefaultConfig()
	cfg.Routine = "dtc"
	if err := New(cfg).Setup(nil, nil); err == nil {
		t.Error("expected error for unknown routine")
	}
}

func TestExperiment_SVPWM(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Command.Periods = 126
	rec := pwm.NewRecorder(0)

	e := New(cfg)
	if err := e.Setup(rec, nil); err != nil {
		t.Fatal(err)
	}
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if res.Periods != 126 || len(rec.History(0)) != 126 {
		t.Errorf("periods = %d, commits = %d", res.Periods, len(rec.History(0)))
	}
	// 126 steps of 0.1 rad is two revolutions
	if res.Metrics["sector_coverage"] != 6 {
		t.Errorf("sector coverage = %v", res.Metrics["sector_coverage"])
	}
	if res.Metrics["saturation_ratio"] != 0 {
		t.Errorf("saturation = %v", res.Metrics["saturation_ratio"])
	}
	if p := res.Metrics["peak_counter"]; p <= 0 || p > cfg.Modulator.MaxCounter {
		t.Errorf("peak counter = %v", p)
	}
	if e.State().Period != 126 {
		t.Errorf("state period = %d", e.State().Period)
	}
}

func TestExperiment_Overmodulation(t *testing.T) {
	cfg := config.GetPreset("svpwm", "overmodulation")
	cfg.Output = config.DefaultConfig().Output

	e := New(cfg)
	if err := e.Setup(nil, nil); err != nil {
		t.Fatal(err)
	}
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Metrics["saturation_ratio"] <= 0 {
		t.Error("expected saturation with iq = 9 on a 12 V bus")
	}
	if res.Metrics["peak_counter"] > cfg.Modulator.MaxCounter {
		t.Errorf("peak counter %v above max", res.Metrics["peak_counter"])
	}
}

func TestExperiment_ClarkePark(t *testing.T) {
	cfg := config.GetPreset("clarke-park", "sweep")
	e := New(cfg)
	if err := e.Setup(nil, nil); err != nil {
		t.Fatal(err)
	}
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if r := res.Metrics["dq_ripple"]; r > 1e-3 {
		t.Errorf("dq ripple = %v", r)
	}
	if b := res.Metrics["phase_imbalance"]; b > 1e-4 {
		t.Errorf("phase imbalance = %v", b)
	}
}
