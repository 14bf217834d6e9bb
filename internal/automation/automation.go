// Package automation runs scripted sequences of routine runs.
package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/focpwm/internal/config"
	"github.com/san-kum/focpwm/internal/experiment"
	"github.com/san-kum/focpwm/internal/logger"
	"github.com/san-kum/focpwm/internal/loop"
	"github.com/san-kum/focpwm/internal/storage"
)

// Scenario defines a scripted run sequence
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run. Unset fields fall back to the preset, then to the
// defaults.
type Step struct {
	Name      string   `yaml:"name"`
	Routine   string   `yaml:"routine"`
	Preset    string   `yaml:"preset"`
	Id        *float64 `yaml:"id"`
	Iq        *float64 `yaml:"iq"`
	AngleStep *float64 `yaml:"angle_step"`
	Udc       *float64 `yaml:"udc"`
	Periods   int      `yaml:"periods"`
	// Continue starts from the angle the previous step ended at.
	Continue bool `yaml:"continue"`
	Save     bool `yaml:"save"`
}

type StepResult struct {
	Name   string
	RunID  string
	Result *loop.Result
	End    loop.State
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, errors.Wrapf(err, "parse scenario %s", path)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Config resolves the step against its preset and the defaults.
func (s Step) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Routine != "" {
		cfg.Routine = s.Routine
	}

	if s.Preset != "" {
		p := config.GetPreset(cfg.Routine, s.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %s for routine %s", s.Preset, cfg.Routine)
		}
		cfg.Modulator = p.Modulator
		cfg.TableSize = p.TableSize
		cfg.Command = p.Command
	}

	if s.Id != nil {
		cfg.Command.Id = *s.Id
	}
	if s.Iq != nil {
		cfg.Command.Iq = *s.Iq
	}
	if s.AngleStep != nil {
		cfg.Command.AngleStep = *s.AngleStep
	}
	if s.Udc != nil {
		cfg.Modulator.Udc = *s.Udc
	}
	if s.Periods > 0 {
		cfg.Command.Periods = s.Periods
	}
	// scenarios never drive hardware
	cfg.Output.Driver = "none"
	return cfg, nil
}

// RunScenario executes all steps in order. Runs with Save set are written to
// store, which may be nil when nothing is saved.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))
	var last loop.State

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step%d", i+1)
		}

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.Continue {
			cfg.Command.StartAngle = last.Angle
		}

		logger.L().Infof("running step %d/%d: %s (%s)", i+1, len(scenario.Steps), name, cfg.Routine)

		exp := experiment.New(cfg)
		if err := exp.Setup(nil, nil); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		last = exp.State()

		sr := StepResult{Name: name, Result: result, End: last}
		if step.Save {
			if store == nil {
				return results, fmt.Errorf("step %d: save requested without a store", i+1)
			}
			if sr.RunID, err = store.Save(cfg, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}
