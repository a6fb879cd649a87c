package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Sign is the polarity of a charge.
type Sign int8

const (
	Neutral  Sign = 0
	Positive Sign = 1
	Negative Sign = -1
)

func (s Sign) String() string {
	switch s {
	case Positive:
		return "+"
	case Negative:
		return "-"
	default:
		return "/"
	}
}

// Opposes reports whether s and o are both non-neutral with different sign.
func (s Sign) Opposes(o Sign) bool {
	return s != Neutral && o != Neutral && s != o
}

// ParseSign accepts "+", "-", "positive", "negative" and "neutral".
func ParseSign(v string) (Sign, error) {
	switch v {
	case "+", "positive", "pos":
		return Positive, nil
	case "-", "negative", "neg":
		return Negative, nil
	case "0", "/", "neutral":
		return Neutral, nil
	}
	return Neutral, fmt.Errorf("%w: %q", ErrInvalidSign, v)
}

// Charge is a simulated point body.
//
// Fixed charges never move; their velocity and acceleration stay zero.
// Neutral charges carry Q == 0 and so neither exert nor feel force.
type Charge struct {
	ID     int
	Pos    r2.Vec
	Vel    r2.Vec
	Sign   Sign
	Q      float64
	Mass   float64
	Radius float64
	Fixed  bool

	// Colliding is set during the pair pass of the current tick.
	Colliding bool

	// Forces holds the per-partner contributions of the current tick.
	Forces []r2.Vec
	// Net is the vector sum of Forces.
	Net r2.Vec
	Acc r2.Vec
	// MaxForce is the largest magnitude among Forces and Net. Renderers
	// use it to scale arrows.
	MaxForce float64
}

// NewCharge creates a charge of the default magnitude with the given sign.
func NewCharge(id int, sign Sign, pos r2.Vec, fixed bool, p Params) Charge {
	return Charge{
		ID:     id,
		Pos:    pos,
		Sign:   sign,
		Q:      float64(sign) * p.DefaultCharge,
		Mass:   p.DefaultMass,
		Radius: p.RadiusFor(sign),
		Fixed:  fixed,
	}
}

// NewNeutral creates a neutral body, as produced by a merge.
func NewNeutral(id int, pos, vel r2.Vec, mass float64, fixed bool, p Params) Charge {
	c := Charge{
		ID:     id,
		Pos:    pos,
		Vel:    vel,
		Sign:   Neutral,
		Mass:   mass,
		Radius: p.NeutralRadius,
		Fixed:  fixed,
	}
	if fixed {
		c.Vel = r2.Vec{}
	}
	return c
}

// SetMagnitude replaces |Q| keeping the sign. Neutral charges stay at zero.
func (c *Charge) SetMagnitude(m float64) error {
	if !finite(m) || m <= 0 {
		return fmt.Errorf("%w: magnitude %v", ErrInvalidParams, m)
	}
	c.Q = float64(c.Sign) * m
	return nil
}

// ClearForces resets the per-tick accumulators.
func (c *Charge) ClearForces() {
	c.Forces = c.Forces[:0]
	c.Net = r2.Vec{}
	c.MaxForce = 0
	c.Colliding = false
}

// AddForce records one partner's contribution.
func (c *Charge) AddForce(f r2.Vec) {
	c.Forces = append(c.Forces, f)
}

// SumForces sets Net and MaxForce from Forces.
func (c *Charge) SumForces() {
	c.Net = r2.Vec{}
	c.MaxForce = 0
	for _, f := range c.Forces {
		c.Net = r2.Add(c.Net, f)
		c.MaxForce = math.Max(c.MaxForce, r2.Norm(f))
	}
	c.MaxForce = math.Max(c.MaxForce, r2.Norm(c.Net))
}

// Accelerate sets Acc = Net / Mass.
func (c *Charge) Accelerate() {
	if c.Fixed || c.Mass <= 0 {
		c.Acc = r2.Vec{}
		return
	}
	c.Acc = r2.Scale(1/c.Mass, c.Net)
}

// UpdateVelocity applies the damped speed rule. The new speed is the
// acceleration magnitude plus the frictioned old speed, directed along the
// net force. With no net force the charge keeps its heading. Speeds below
// RestSpeed, and any charge in contact, snap to rest.
func (c *Charge) UpdateVelocity(p Params) {
	if c.Fixed {
		c.Vel = r2.Vec{}
		return
	}
	speed := r2.Norm(c.Acc) + r2.Norm(c.Vel)*p.Friction
	if speed < p.RestSpeed || c.Colliding {
		c.Vel = r2.Vec{}
		return
	}
	heading := unit(c.Net)
	if heading == (r2.Vec{}) {
		heading = unit(c.Vel)
	}
	c.Vel = r2.Scale(speed, heading)
}

// Move advances the position by Vel*dt unless the charge is fixed or in
// contact this tick.
func (c *Charge) Move(dt float64) {
	if c.Fixed || c.Colliding {
		return
	}
	c.Pos = r2.Add(c.Pos, r2.Scale(dt, c.Vel))
}

// Integrate runs the full per-tick update after the pair pass.
func (c *Charge) Integrate(dt float64, p Params) {
	c.SumForces()
	c.Accelerate()
	c.UpdateVelocity(p)
	c.Move(dt)
}

func (c *Charge) Speed() float64 { return r2.Norm(c.Vel) }

func (c *Charge) Momentum() r2.Vec { return r2.Scale(c.Mass, c.Vel) }

func (c *Charge) KineticEnergy() float64 {
	return 0.5 * c.Mass * r2.Norm2(c.Vel)
}

// Contains reports whether pt lies inside the charge's disc.
func (c *Charge) Contains(pt r2.Vec) bool {
	return r2.Norm2(r2.Sub(pt, c.Pos)) <= c.Radius*c.Radius
}

func (c Charge) String() string {
	fixed := ""
	if c.Fixed {
		fixed = " fixed"
	}
	return fmt.Sprintf("charge#%d(%s q=%.3g at %.1f,%.1f%s)", c.ID, c.Sign, c.Q, c.Pos.X, c.Pos.Y, fixed)
}
