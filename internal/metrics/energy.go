package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/chargesim/internal/sim"
)

// KineticEnergy is the mean total kinetic energy over running ticks.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
	scratch []float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(s sim.Snapshot) {
	if s.Paused {
		return
	}
	k.total += TotalKinetic(s, &k.scratch)
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// TotalKinetic sums the kinetic energy of every charge in s. buf is
// reused between calls when non-nil.
func TotalKinetic(s sim.Snapshot, buf *[]float64) float64 {
	var local []float64
	if buf == nil {
		buf = &local
	}
	*buf = (*buf)[:0]
	for i := range s.Charges {
		*buf = append(*buf, s.Charges[i].KineticEnergy())
	}
	return floats.Sum(*buf)
}

// PeakSpeed is the largest charge speed seen during the run.
type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(s sim.Snapshot) {
	for i := range s.Charges {
		p.peak = math.Max(p.peak, s.Charges[i].Speed())
	}
}

func (p *PeakSpeed) Value() float64 { return p.peak }
func (p *PeakSpeed) Reset()         { p.peak = 0 }
