package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/chargesim/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 800.0, cfg.Field.Width)
	assert.Equal(t, 500.0, cfg.Field.Height)
	assert.Equal(t, 0.95, cfg.Physics.Friction)
	assert.Greater(t, cfg.Run.Dt, 0.0)
	assert.Empty(t, cfg.Charges)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("dipole")
	require.NotNil(t, cfg)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "dipole", cfg.Name)
	assert.Len(t, cfg.Charges, 2)
	assert.True(t, cfg.Charges[0].Fixed)

	cfg.Charges[0].X = -1
	assert.Equal(t, 300.0, Presets["dipole"].Charges[0].X, "preset must not alias returned config")
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("nonexistent"))
}

func TestAllPresetsValid(t *testing.T) {
	names := ListPresets()
	require.NotEmpty(t, names)
	assert.IsNonDecreasing(t, names)
	for _, name := range names {
		cfg := GetPreset(name)
		require.NotNil(t, cfg, name)
		assert.NoError(t, cfg.Validate(), name)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero dt", func(c *Config) { c.Run.Dt = 0 }, ErrInvalidConfig},
		{"zero ticks", func(c *Config) { c.Run.Ticks = 0 }, ErrInvalidConfig},
		{"bad physics", func(c *Config) { c.Physics.DefaultMass = -1 }, physics.ErrInvalidParams},
		{"bad sign", func(c *Config) { c.Charges = []ChargeConfig{{Sign: "?"}} }, physics.ErrInvalidSign},
		{"neutral placement", func(c *Config) { c.Charges = []ChargeConfig{{Sign: "neutral"}} }, physics.ErrInvalidSign},
		{"negative magnitude", func(c *Config) { c.Charges = []ChargeConfig{{Sign: "+", Magnitude: -1}} }, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestSaveLoadPreservesScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	cfg := GetPreset("capacitor")
	cfg.Physics.Friction = 0.9
	cfg.Logger.Level = "debug"

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Charges, loaded.Charges)
	assert.Equal(t, 0.9, loaded.Physics.Friction)
	assert.Equal(t, "debug", loaded.Logger.Level)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	doc := []byte("name: tiny\nrun:\n  ticks: 5\ncharges:\n  - {sign: '-', x: 10, y: 20}\n")
	require.NoError(t, os.WriteFile(path, doc, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tiny", cfg.Name)
	assert.Equal(t, 5, cfg.Run.Ticks)
	assert.Equal(t, DefaultDt, cfg.Run.Dt)
	assert.Equal(t, physics.DefaultParams(), cfg.Physics)
	require.Len(t, cfg.Charges, 1)
	assert.Equal(t, "-", cfg.Charges[0].Sign)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("physics:\n  friction: 0\n"), 0644))
	_, err := Load(path)
	assert.ErrorIs(t, err, physics.ErrInvalidParams)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
