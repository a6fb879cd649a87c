package field

import (
	"errors"
	"fmt"
	"math"
	"runtime"
)

var ErrInvalidLayout = errors.New("field: invalid layout")

// Layout describes the plane and both lattice spacings.
type Layout struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	ProbeSpacing float64 `yaml:"probe_spacing"`
	GridSpacing  float64 `yaml:"grid_spacing"`
	// Workers bounds sampling concurrency. 0 means runtime.NumCPU.
	Workers int `yaml:"workers"`
}

func DefaultLayout() Layout {
	return Layout{
		Width:        800,
		Height:       500,
		ProbeSpacing: 25,
		GridSpacing:  1,
	}
}

func (l Layout) Validate() error {
	for name, v := range map[string]float64{
		"width":         l.Width,
		"height":        l.Height,
		"probe_spacing": l.ProbeSpacing,
		"grid_spacing":  l.GridSpacing,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidLayout, name, v)
		}
	}
	if l.Workers < 0 {
		return fmt.Errorf("%w: workers = %d", ErrInvalidLayout, l.Workers)
	}
	return nil
}

// Concurrency returns the effective worker count.
func (l Layout) Concurrency() int {
	if l.Workers > 0 {
		return l.Workers
	}
	return runtime.NumCPU()
}
