package config

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/focpwm/internal/foc"
)

const (
	DefaultTs         = 1.0
	DefaultUdc        = 12.0
	DefaultMaxCounter = 5000.0
	DefaultTableSize  = foc.DefaultTableSize
	DefaultAngleStep  = 0.1
	DefaultIq         = 2.5
	DefaultPeriods    = 1000
	DefaultRoutine    = "svpwm"
	DefaultBaud       = 115200
	DefaultMQTTTopic  = "focpwm/telemetry"
)

type Config struct {
	LogLevel  zapcore.Level   `yaml:"log_level"`
	Routine   string          `yaml:"routine"`
	Modulator ModulatorConfig `yaml:"modulator"`
	TableSize int             `yaml:"table_size"`
	Command   CommandConfig   `yaml:"command"`
	Output    OutputConfig    `yaml:"output"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ModulatorConfig struct {
	Ts         float64 `yaml:"ts"`
	Udc        float64 `yaml:"udc"`
	MaxCounter float64 `yaml:"max_counter"`
}

// CommandConfig drives the periodic routines.
type CommandConfig struct {
	Id         float64 `yaml:"id"`
	Iq         float64 `yaml:"iq"`
	AngleStep  float64 `yaml:"angle_step"`
	StartAngle float64 `yaml:"start_angle"`
	Periods    int     `yaml:"periods"`
}

// OutputConfig selects where compare values go. Driver is "none", "recorder"
// or "rpio".
type OutputConfig struct {
	Driver    string   `yaml:"driver"`
	Pins      [3]uint8 `yaml:"pins"`
	Frequency int      `yaml:"frequency"`
	Channel   int      `yaml:"channel"`
}

// TelemetryConfig selects the debug record sinks.
type TelemetryConfig struct {
	Stdout bool          `yaml:"stdout"`
	Serial *SerialConfig `yaml:"serial,omitempty"`
	MQTT   *MQTTConfig   `yaml:"mqtt,omitempty"`
	Log    bool          `yaml:"log"`
}

type SerialConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
	QoS      byte   `yaml:"qos"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: zapcore.InfoLevel,
		Routine:  DefaultRoutine,
		Modulator: ModulatorConfig{
			Ts:         DefaultTs,
			Udc:        DefaultUdc,
			MaxCounter: DefaultMaxCounter,
		},
		TableSize: DefaultTableSize,
		Command: CommandConfig{
			Iq:        DefaultIq,
			AngleStep: DefaultAngleStep,
			Periods:   DefaultPeriods,
		},
		Output: OutputConfig{
			Driver: "recorder",
			// BCM pins with a hardware PWM function
			Pins:      [3]uint8{12, 13, 18},
			Frequency: 1000,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) fillDefaults() {
	if c.Telemetry.Serial != nil && c.Telemetry.Serial.Baud == 0 {
		c.Telemetry.Serial.Baud = DefaultBaud
	}
	if c.Telemetry.MQTT != nil {
		if c.Telemetry.MQTT.Topic == "" {
			c.Telemetry.MQTT.Topic = DefaultMQTTTopic
		}
		if c.Telemetry.MQTT.ClientID == "" {
			c.Telemetry.MQTT.ClientID = "focpwm"
		}
	}
}

// ModulatorParams converts the modulator section for foc.NewModulator.
func (c *Config) ModulatorParams() foc.ModulatorParams {
	return foc.ModulatorParams{
		Ts:         c.Modulator.Ts,
		Udc:        c.Modulator.Udc,
		MaxCounter: c.Modulator.MaxCounter,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := c.ModulatorParams().Validate(); err != nil {
		return errors.WithMessage(err, "modulator")
	}
	if _, err := foc.NewTrigTable(c.TableSize); err != nil {
		return errors.WithMessage(err, "table_size")
	}
	if c.Command.Periods <= 0 {
		return fmt.Errorf("command.periods must be positive, got %d", c.Command.Periods)
	}
	switch c.Output.Driver {
	case "", "none", "recorder", "rpio":
	default:
		return fmt.Errorf("unknown output driver: %s", c.Output.Driver)
	}
	if c.Telemetry.Serial != nil && c.Telemetry.Serial.Device == "" {
		return fmt.Errorf("telemetry.serial.device is required")
	}
	if c.Telemetry.MQTT != nil && c.Telemetry.MQTT.Broker == "" {
		return fmt.Errorf("telemetry.mqtt.broker is required")
	}
	return nil
}
