package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/chargesim/internal/field"
	"github.com/san-kum/chargesim/internal/physics"
	"github.com/san-kum/chargesim/internal/voltmeter"
)

const (
	DefaultDt    = 1.0 / 60
	DefaultTicks = 600
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Name      string              `yaml:"name"`
	Physics   physics.Params      `yaml:"physics"`
	Field     field.Layout        `yaml:"field"`
	Voltmeter voltmeter.Tolerance `yaml:"voltmeter"`
	Run       RunConfig           `yaml:"run"`
	Charges   []ChargeConfig      `yaml:"charges"`
	Logger    LoggerConfig        `yaml:"logger"`
}

type RunConfig struct {
	Dt    float64 `yaml:"dt"`
	Ticks int     `yaml:"ticks"`
	// SampleField enables the probe lattice and potential grid in headless
	// runs. The interactive front ends always sample.
	SampleField bool `yaml:"sample_field"`
	// Probe is where the voltmeter reads during a headless run.
	Probe PointConfig `yaml:"probe"`
	// Pin pins the initial probe reading as an equipotential.
	Pin bool `yaml:"pin"`
}

type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ChargeConfig is one initial placement.
type ChargeConfig struct {
	Sign  string  `yaml:"sign"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Fixed bool    `yaml:"fixed,omitempty"`
	// Magnitude overrides the default |q| when positive.
	Magnitude float64 `yaml:"magnitude,omitempty"`
}

// LoggerConfig mirrors the zap setup options.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names a terminal color per log level.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

func DefaultLogger() LoggerConfig {
	return LoggerConfig{
		Level:       "info",
		Format:      "console",
		ServiceName: "chargesim",
		MaxSize:     10,
		MaxBackups:  3,
		MaxAge:      28,
		Colors: ColorConfig{
			Debug: "cyan",
			Info:  "green",
			Warn:  "yellow",
			Error: "red",
		},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Name:      "sandbox",
		Physics:   physics.DefaultParams(),
		Field:     field.DefaultLayout(),
		Voltmeter: voltmeter.DefaultTolerance(),
		Run: RunConfig{
			Dt:    DefaultDt,
			Ticks: DefaultTicks,
			Probe: PointConfig{X: 400, Y: 250},
		},
		Logger: DefaultLogger(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Physics.Validate(); err != nil {
		return err
	}
	if err := c.Field.Validate(); err != nil {
		return err
	}
	if err := c.Voltmeter.Validate(); err != nil {
		return err
	}
	if math.IsNaN(c.Run.Dt) || math.IsInf(c.Run.Dt, 0) || c.Run.Dt <= 0 {
		return fmt.Errorf("%w: run.dt = %v", ErrInvalidConfig, c.Run.Dt)
	}
	if c.Run.Ticks <= 0 {
		return fmt.Errorf("%w: run.ticks = %d", ErrInvalidConfig, c.Run.Ticks)
	}
	for i, ch := range c.Charges {
		sign, err := physics.ParseSign(ch.Sign)
		if err != nil {
			return fmt.Errorf("charges[%d]: %w", i, err)
		}
		if sign == physics.Neutral {
			return fmt.Errorf("charges[%d]: %w", i, physics.ErrInvalidSign)
		}
		if math.IsNaN(ch.X+ch.Y) || math.IsInf(ch.X+ch.Y, 0) {
			return fmt.Errorf("charges[%d]: %w", i, physics.ErrNonFinite)
		}
		if ch.Magnitude < 0 {
			return fmt.Errorf("%w: charges[%d].magnitude = %v", ErrInvalidConfig, i, ch.Magnitude)
		}
	}
	return nil
}
