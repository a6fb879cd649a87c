package physics

import "gonum.org/v1/gonum/spatial/r2"

// CanMerge reports whether a and b annihilate on contact.
func CanMerge(a, b *Charge) bool {
	return a.Sign.Opposes(b.Sign)
}

// Merge builds the neutral product of a and b. Both parents are taken by
// value and must come from the same pre-contact snapshot.
//
// The product sits at the midpoint, moves with the mass-weighted average
// velocity and is fixed only if both parents were.
func Merge(a, b Charge, id int, p Params) Charge {
	mid := r2.Scale(0.5, r2.Add(a.Pos, b.Pos))
	var vel r2.Vec
	if total := a.Mass + b.Mass; total > 0 {
		vel = r2.Scale(1/total, r2.Add(a.Momentum(), b.Momentum()))
	}
	return NewNeutral(id, mid, vel, p.MergedMass(a.Mass, b.Mass), a.Fixed && b.Fixed, p)
}
