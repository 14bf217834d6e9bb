package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/san-kum/focpwm/internal/foc"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Routine != "svpwm" {
		t.Errorf("expected routine svpwm, got %s", cfg.Routine)
	}
	if cfg.Modulator.Ts != 1 || cfg.Modulator.Udc != 12 || cfg.Modulator.MaxCounter != 5000 {
		t.Errorf("unexpected modulator defaults: %+v", cfg.Modulator)
	}
	if cfg.TableSize != 512 {
		t.Errorf("expected table size 512, got %d", cfg.TableSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"zero ts", func(c *Config) { c.Modulator.Ts = 0 }, foc.ErrParameterBounds},
		{"negative udc", func(c *Config) { c.Modulator.Udc = -1 }, foc.ErrParameterBounds},
		{"odd table", func(c *Config) { c.TableSize = 500 }, foc.ErrTableSize},
		{"no periods", func(c *Config) { c.Command.Periods = 0 }, nil},
		{"bad driver", func(c *Config) { c.Output.Driver = "fpga" }, nil},
		{"serial without device", func(c *Config) { c.Telemetry.Serial = &SerialConfig{} }, nil},
		{"mqtt without broker", func(c *Config) { c.Telemetry.MQTT = &MQTTConfig{} }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focpwm.yaml")

	cfg := DefaultConfig()
	cfg.LogLevel = zapcore.DebugLevel
	cfg.Command.Iq = 4.0
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Command.Iq != 4.0 {
		t.Errorf("expected iq 4.0, got %f", loaded.Command.Iq)
	}
	if loaded.LogLevel != zapcore.DebugLevel {
		t.Errorf("expected debug level, got %v", loaded.LogLevel)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "routine: clarke-park\ntelemetry:\n  serial:\n    device: /dev/ttyUSB0\n  mqtt:\n    broker: tcp://127.0.0.1:1883\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Routine != "clarke-park" {
		t.Errorf("expected clarke-park, got %s", cfg.Routine)
	}
	if cfg.Modulator.MaxCounter != DefaultMaxCounter {
		t.Errorf("default max counter lost: %v", cfg.Modulator.MaxCounter)
	}
	if cfg.Telemetry.Serial.Baud != DefaultBaud {
		t.Errorf("expected default baud, got %d", cfg.Telemetry.Serial.Baud)
	}
	if cfg.Telemetry.MQTT.Topic != DefaultMQTTTopic {
		t.Errorf("expected default topic, got %s", cfg.Telemetry.MQTT.Topic)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("svpwm", "overmodulation")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Command.Iq != 9.0 {
		t.Errorf("expected iq 9.0, got %f", cfg.Command.Iq)
	}

	// presets are copies
	cfg.Command.Iq = 1
	if Presets["svpwm"]["overmodulation"].Command.Iq != 9.0 {
		t.Error("GetPreset returned shared preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("svpwm", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "nominal"); cfg != nil {
		t.Error("expected nil for nonexistent routine")
	}
}

func TestListPresets(t *testing.T) {
	if presets := ListPresets("svpwm"); len(presets) != 3 {
		t.Errorf("expected 3 svpwm presets, got %v", presets)
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent routine")
	}
}
