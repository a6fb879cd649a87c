package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ForceBetween returns the force exerted on a point charge qa at a by a
// point charge qb at b. Like signs repel. The separation is clamped to
// MinDistance; coincident points yield a zero vector.
func ForceBetween(a, b r2.Vec, qa, qb float64, p Params) r2.Vec {
	delta := r2.Sub(a, b)
	d2 := math.Max(r2.Norm2(delta), p.MinDistance*p.MinDistance)
	mag := p.ForceScale * p.CoulombK * qa * qb / d2
	return r2.Scale(mag, unit(delta))
}

// Interact evaluates the force between a and b once and records it on
// both, the negation going to b. It returns the force on a.
func Interact(a, b *Charge, p Params) r2.Vec {
	if a == b {
		panic("physics: charge paired with itself")
	}
	f := ForceBetween(a.Pos, b.Pos, a.Q, b.Q, p)
	a.AddForce(f)
	b.AddForce(r2.Scale(-1, f))
	return f
}

// Potential returns the scalar potential at pt due to every non-neutral
// charge. Empty input yields 0.
func Potential(pt r2.Vec, charges []Charge, p Params) float64 {
	v := 0.0
	for i := range charges {
		c := &charges[i]
		if c.Sign == Neutral {
			continue
		}
		d := math.Max(r2.Norm(r2.Sub(pt, c.Pos)), p.MinDistance)
		v += p.CoulombK * c.Q / d
	}
	return v
}
