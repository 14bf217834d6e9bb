package config

var Presets = map[string]map[string]*Config{
	"svpwm": {
		"nominal": {
			Routine: "svpwm", Modulator: ModulatorConfig{Ts: 1, Udc: 12, MaxCounter: 5000},
			TableSize: 512, Command: CommandConfig{Id: 0, Iq: 2.5, AngleStep: 0.1, Periods: 1000},
		},
		"overmodulation": {
			Routine: "svpwm", Modulator: ModulatorConfig{Ts: 1, Udc: 12, MaxCounter: 5000},
			TableSize: 512, Command: CommandConfig{Id: 0, Iq: 9.0, AngleStep: 0.05, Periods: 2000},
		},
		"slow": {
			Routine: "svpwm", Modulator: ModulatorConfig{Ts: 1, Udc: 12, MaxCounter: 5000},
			TableSize: 512, Command: CommandConfig{Id: 0, Iq: 2.5, AngleStep: 0.01, Periods: 4096},
		},
	},
	"inverse-park-clarke": {
		"unit": {
			Routine: "inverse-park-clarke", Modulator: ModulatorConfig{Ts: 1, Udc: 12, MaxCounter: 5000},
			TableSize: 512, Command: CommandConfig{Id: 0, Iq: 0.5, AngleStep: 0.1, Periods: 1000},
		},
	},
	"clarke-park": {
		"sweep": {
			Routine: "clarke-park", Modulator: ModulatorConfig{Ts: 1, Udc: 12, MaxCounter: 5000},
			TableSize: 512, Command: CommandConfig{AngleStep: 0.1, Periods: 1000},
		},
	},
}

func GetPreset(routine, preset string) *Config {
	routinePresets, ok := Presets[routine]
	if !ok {
		return nil
	}
	cfg, ok := routinePresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(routine string) []string {
	routinePresets, ok := Presets[routine]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(routinePresets))
	for name := range routinePresets {
		names = append(names, name)
	}
	return names
}
