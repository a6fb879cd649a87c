// Package voltmeter implements the user-positioned potential probe and the
// set of pinned equipotential levels.
package voltmeter

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/chargesim/internal/physics"
)

// Voltmeter reads the potential at a movable point and keeps the levels
// the user has pinned. The zero value is inactive with no levels but has
// a zero Tolerance; use New.
type Voltmeter struct {
	tol     Tolerance
	pos     r2.Vec
	reading float64
	active  bool
	levels  []float64
}

func New(tol Tolerance) *Voltmeter {
	return &Voltmeter{tol: tol}
}

// Update moves the probe to pos and recomputes the reading.
func (v *Voltmeter) Update(pos r2.Vec, charges []physics.Charge, p physics.Params) float64 {
	v.pos = pos
	v.reading = physics.Potential(pos, charges, p)
	return v.reading
}

// Refresh recomputes the reading at the current position.
func (v *Voltmeter) Refresh(charges []physics.Charge, p physics.Params) float64 {
	return v.Update(v.pos, charges, p)
}

func (v *Voltmeter) Reading() float64     { return v.reading }
func (v *Voltmeter) Position() r2.Vec     { return v.pos }
func (v *Voltmeter) Active() bool         { return v.active }
func (v *Voltmeter) Tolerance() Tolerance { return v.tol }

// Toggle flips the active flag and returns the new state.
func (v *Voltmeter) Toggle() bool {
	v.active = !v.active
	return v.active
}

// Pin appends the current reading to the pinned levels. Duplicates are kept.
func (v *Voltmeter) Pin() float64 {
	v.levels = append(v.levels, v.reading)
	return v.reading
}

// Clear drops every pinned level.
func (v *Voltmeter) Clear() {
	v.levels = v.levels[:0]
}

// Levels returns a copy of the pinned levels in pin order.
func (v *Voltmeter) Levels() []float64 {
	return slices.Clone(v.levels)
}

// OnEquipotential reports whether potential lies on any pinned level.
func (v *Voltmeter) OnEquipotential(potential float64) bool {
	for _, l := range v.levels {
		if v.tol.Matches(potential, l) {
			return true
		}
	}
	return false
}
