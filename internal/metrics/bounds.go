package metrics

import (
	"github.com/san-kum/chargesim/internal/sim"
)

// Escapes counts ticks on which at least one charge sat outside the plane.
// Charges are never confined, so a repelled pair eventually leaves.
type Escapes struct {
	name          string
	width, height float64
	violations    int
}

func NewEscapes(width, height float64) *Escapes {
	return &Escapes{name: "escapes", width: width, height: height}
}

func (e *Escapes) Name() string { return e.name }

func (e *Escapes) Observe(s sim.Snapshot) {
	for i := range s.Charges {
		p := s.Charges[i].Pos
		if p.X < 0 || p.Y < 0 || p.X > e.width || p.Y > e.height {
			e.violations++
			return
		}
	}
}

func (e *Escapes) Value() float64 { return float64(e.violations) }
func (e *Escapes) Reset()         { e.violations = 0 }

// Standard returns the metric set recorded by headless runs.
func Standard(width, height float64) []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewPeakSpeed(),
		NewMergeCount(),
		NewNetCharge(),
		NewLiveCharges(),
		NewEscapes(width, height),
	}
}
