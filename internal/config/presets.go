package config

import (
	"maps"
	"slices"
)

// Preset is a named starting arrangement.
type Preset struct {
	Description string
	Charges     []ChargeConfig
	Ticks       int
	Probe       PointConfig
}

var Presets = map[string]Preset{
	"dipole": {
		Description: "fixed +/- pair, static field",
		Charges: []ChargeConfig{
			{Sign: "+", X: 300, Y: 250, Fixed: true},
			{Sign: "-", X: 500, Y: 250, Fixed: true},
		},
		Ticks: 120,
		Probe: PointConfig{X: 400, Y: 250},
	},
	"annihilation": {
		Description: "free +/- pair drawn together until they merge",
		Charges: []ChargeConfig{
			{Sign: "+", X: 250, Y: 250},
			{Sign: "-", X: 550, Y: 250},
		},
		Ticks: 600,
		Probe: PointConfig{X: 400, Y: 100},
	},
	"quadrupole": {
		Description: "four fixed charges with alternating sign",
		Charges: []ChargeConfig{
			{Sign: "+", X: 300, Y: 150, Fixed: true},
			{Sign: "-", X: 500, Y: 150, Fixed: true},
			{Sign: "-", X: 300, Y: 350, Fixed: true},
			{Sign: "+", X: 500, Y: 350, Fixed: true},
		},
		Ticks: 120,
		Probe: PointConfig{X: 400, Y: 250},
	},
	"anchored": {
		Description: "free charges orbiting into a fixed anchor",
		Charges: []ChargeConfig{
			{Sign: "+", X: 400, Y: 250, Fixed: true, Magnitude: 3e-7},
			{Sign: "-", X: 150, Y: 100},
			{Sign: "-", X: 650, Y: 400},
			{Sign: "+", X: 650, Y: 100},
		},
		Ticks: 900,
		Probe: PointConfig{X: 400, Y: 450},
	},
	"capacitor": {
		Description: "two fixed plates of opposite charge with a free charge between",
		Charges: []ChargeConfig{
			{Sign: "+", X: 200, Y: 100, Fixed: true},
			{Sign: "+", X: 200, Y: 250, Fixed: true},
			{Sign: "+", X: 200, Y: 400, Fixed: true},
			{Sign: "-", X: 600, Y: 100, Fixed: true},
			{Sign: "-", X: 600, Y: 250, Fixed: true},
			{Sign: "-", X: 600, Y: 400, Fixed: true},
			{Sign: "+", X: 400, Y: 180},
		},
		Ticks: 600,
		Probe: PointConfig{X: 400, Y: 250},
	},
}

// GetPreset returns a default config populated from the named preset, or
// nil if there is none.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Charges = slices.Clone(p.Charges)
	if p.Ticks > 0 {
		cfg.Run.Ticks = p.Ticks
	}
	cfg.Run.Probe = p.Probe
	return cfg
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	return slices.Sorted(maps.Keys(Presets))
}
