package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Contact describes an overlap between two discs.
type Contact struct {
	// Normal points from the first body toward the second.
	Normal   r2.Vec
	Depth    float64
	Distance float64
}

// Overlap reports whether a and b intersect, i.e. the squared distance
// between centers is below the squared sum of radii.
func Overlap(a, b *Charge) (Contact, bool) {
	delta := r2.Sub(b.Pos, a.Pos)
	d2 := r2.Norm2(delta)
	r := a.Radius + b.Radius
	if d2 >= r*r {
		return Contact{}, false
	}
	d := math.Sqrt(d2)
	n := r2.Vec{X: 1}
	if d > 0 {
		n = r2.Scale(1/d, delta)
	}
	return Contact{Normal: n, Depth: r - d, Distance: d}, true
}

// Resolve pushes a and b apart along the contact normal and, if both are
// movable and approaching, exchanges an impulse. Correction is split by
// movable weight, so a fixed body takes none of it. It returns the impulse
// magnitude, zero if none was applied.
func Resolve(a, b *Charge, c Contact, p Params) float64 {
	wa, wb := movable(a), movable(b)
	total := wa + wb
	if total == 0 {
		return 0
	}
	corr := c.Depth * p.CorrectionStrength
	a.Pos = r2.Sub(a.Pos, r2.Scale(corr*wa/total, c.Normal))
	b.Pos = r2.Add(b.Pos, r2.Scale(corr*wb/total, c.Normal))

	if a.Fixed || b.Fixed || a.Mass <= 0 || b.Mass <= 0 {
		return 0
	}
	vn := r2.Dot(r2.Sub(b.Vel, a.Vel), c.Normal)
	if vn >= 0 {
		return 0
	}
	invA, invB := 1/a.Mass, 1/b.Mass
	j := -(1 + p.Restitution) * vn / (invA + invB)
	impulse := r2.Scale(j, c.Normal)
	a.Vel = r2.Sub(a.Vel, r2.Scale(invA, impulse))
	b.Vel = r2.Add(b.Vel, r2.Scale(invB, impulse))
	return j
}

func movable(c *Charge) float64 {
	if c.Fixed {
		return 0
	}
	return 1
}
