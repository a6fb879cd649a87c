package sim

import (
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/chargesim/internal/field"
	"github.com/san-kum/chargesim/internal/physics"
	"github.com/san-kum/chargesim/internal/voltmeter"
)

// placementPadding widens each charge's bounding square when testing
// whether a click would spawn on top of it.
const placementPadding = 2.5

type Simulator struct {
	params physics.Params
	layout field.Layout
	log    *zap.Logger

	charges   []physics.Charge
	probes    []physics.Probe
	probeMax  float64
	grid      *field.Grid
	volt      *voltmeter.Voltmeter
	paused    bool
	nextID    int
	tick      int
	elapsed   float64
	metrics   []Metric
	observers []Observer

	sampleField bool

	// pair pass scratch
	before  []physics.Charge
	removed []bool
	spawned []physics.Charge
}

func New(params physics.Params, layout field.Layout, tol voltmeter.Tolerance, opts ...Option) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := tol.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{
		params:      params,
		layout:      layout,
		log:         zap.NewNop(),
		volt:        voltmeter.New(tol),
		sampleField: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.layout.Validate(); err != nil {
		return nil, err
	}
	if s.sampleField {
		s.probes = field.Lattice(s.layout)
		s.grid = field.NewGrid(s.layout)
	}
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// PlaceCharge adds a charge of the default magnitude and returns its id.
func (s *Simulator) PlaceCharge(sign physics.Sign, pos r2.Vec, fixed bool) (int, error) {
	return s.PlaceChargeWithMagnitude(sign, s.params.DefaultCharge, pos, fixed)
}

// PlaceAt is the click handler's placement: it refuses with ErrOccupied
// when CanPlaceAt is false, and otherwise places a default charge.
func (s *Simulator) PlaceAt(sign physics.Sign, pos r2.Vec, fixed bool) (int, error) {
	if !s.CanPlaceAt(pos) {
		return 0, fmt.Errorf("place at %v: %w", pos, ErrOccupied)
	}
	return s.PlaceCharge(sign, pos, fixed)
}

// PlaceChargeWithMagnitude adds a charge with |q| = magnitude.
func (s *Simulator) PlaceChargeWithMagnitude(sign physics.Sign, magnitude float64, pos r2.Vec, fixed bool) (int, error) {
	if sign != physics.Positive && sign != physics.Negative {
		return 0, fmt.Errorf("place %s: %w", sign, physics.ErrInvalidSign)
	}
	if !physics.Finite(pos) {
		return 0, fmt.Errorf("place at %v: %w", pos, physics.ErrNonFinite)
	}
	c := physics.NewCharge(s.nextID, sign, pos, fixed, s.params)
	if err := c.SetMagnitude(magnitude); err != nil {
		return 0, err
	}
	s.nextID++
	s.charges = append(s.charges, c)
	s.log.Debug("charge placed",
		zap.Int("id", c.ID),
		zap.Stringer("sign", sign),
		zap.Float64("x", pos.X),
		zap.Float64("y", pos.Y),
		zap.Bool("fixed", fixed))
	return c.ID, nil
}

// RemoveCharge deletes the charge with the given id.
func (s *Simulator) RemoveCharge(id int) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove %d: %w", id, ErrUnknownCharge)
	}
	s.charges = slices.Delete(s.charges, i, i+1)
	s.log.Debug("charge removed", zap.Int("id", id))
	return nil
}

// MoveCharge relocates a charge, as when dragged. Velocity is untouched.
func (s *Simulator) MoveCharge(id int, pos r2.Vec) error {
	if !physics.Finite(pos) {
		return fmt.Errorf("move %d to %v: %w", id, pos, physics.ErrNonFinite)
	}
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("move %d: %w", id, ErrUnknownCharge)
	}
	s.charges[i].Pos = pos
	return nil
}

// Charge returns a copy of the live charge with the given id.
func (s *Simulator) Charge(id int) (physics.Charge, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return physics.Charge{}, false
	}
	c := s.charges[i]
	c.Forces = slices.Clone(c.Forces)
	return c, true
}

// ChargeAt returns the id of the first charge whose disc contains pos.
func (s *Simulator) ChargeAt(pos r2.Vec) (int, bool) {
	for i := range s.charges {
		if s.charges[i].Contains(pos) {
			return s.charges[i].ID, true
		}
	}
	return 0, false
}

// CanPlaceAt reports whether a click at pos may spawn a charge: the
// voltmeter must be inactive and pos must lie outside every charge's
// padded bounding square.
func (s *Simulator) CanPlaceAt(pos r2.Vec) bool {
	if s.volt.Active() {
		return false
	}
	for i := range s.charges {
		c := &s.charges[i]
		half := c.Radius + placementPadding*c.Radius/2
		if math.Abs(pos.X-c.Pos.X) <= half && math.Abs(pos.Y-c.Pos.Y) <= half {
			return false
		}
	}
	return true
}

// SetProbePosition moves the voltmeter and refreshes its reading.
func (s *Simulator) SetProbePosition(pos r2.Vec) float64 {
	return s.volt.Update(pos, s.charges, s.params)
}

func (s *Simulator) ToggleVoltmeter() bool { return s.volt.Toggle() }

// PinEquipotential pins the current voltmeter reading and returns it.
func (s *Simulator) PinEquipotential() float64 {
	level := s.volt.Pin()
	s.log.Debug("equipotential pinned", zap.Float64("level", level))
	return level
}

func (s *Simulator) ClearEquipotentials() { s.volt.Clear() }

func (s *Simulator) Pause()       { s.paused = true }
func (s *Simulator) Resume()      { s.paused = false }
func (s *Simulator) Paused() bool { return s.paused }

func (s *Simulator) TogglePause() bool {
	s.paused = !s.paused
	return s.paused
}

// Charges returns a copy of the live charges in iteration order.
func (s *Simulator) Charges() []physics.Charge { return cloneCharges(s.charges) }

// cloneCharges copies cs including each charge's Forces, so the result
// stays valid after later ticks reuse the live buffers.
func cloneCharges(cs []physics.Charge) []physics.Charge {
	out := slices.Clone(cs)
	for i := range out {
		out[i].Forces = slices.Clone(out[i].Forces)
	}
	return out
}

// Probes returns the probe lattice. Callers must not modify it.
func (s *Simulator) Probes() []physics.Probe { return s.probes }

// ProbeMax is the largest visible probe force from the last tick.
func (s *Simulator) ProbeMax() float64 { return s.probeMax }

// Grid returns the potential grid, or nil when field sampling is off.
// Callers must not modify it.
func (s *Simulator) Grid() *field.Grid { return s.grid }

func (s *Simulator) Voltmeter() *voltmeter.Voltmeter { return s.volt }
func (s *Simulator) Params() physics.Params          { return s.params }
func (s *Simulator) Layout() field.Layout            { return s.layout }
func (s *Simulator) Time() float64                   { return s.elapsed }
func (s *Simulator) TickCount() int                  { return s.tick }
func (s *Simulator) Len() int                        { return len(s.charges) }

func (s *Simulator) indexOf(id int) int {
	return slices.IndexFunc(s.charges, func(c physics.Charge) bool { return c.ID == id })
}
