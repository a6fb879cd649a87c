package sim

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/chargesim/internal/physics"
)

// Metric accumulates a scalar over the ticks of a run.
type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

// Observer is notified after every tick.
type Observer interface {
	OnTick(s Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) OnTick(s Snapshot) { f(s) }

// MergeEvent records one annihilation.
type MergeEvent struct {
	First, Second int
	Product       int
	At            r2.Vec
}

// TickReport summarises one call to Tick.
type TickReport struct {
	Tick       int
	Time       float64
	Paused     bool
	Live       int
	Collisions int
	// Impulses counts contacts that exchanged momentum.
	Impulses int
	Merges   []MergeEvent
	// OnLevel counts grid samples lying on a pinned equipotential.
	OnLevel  int
	Reading  float64
	ProbeMax float64
}

// Snapshot is the read-only view handed to metrics and observers. Charges
// is a copy owned by the receiver.
type Snapshot struct {
	Tick       int
	Time       float64
	Paused     bool
	Charges    []physics.Charge
	Reading    float64
	Merges     int
	Collisions int
}
