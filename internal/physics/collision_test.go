package physics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestOverlap(t *testing.T) {
	p := DefaultParams()
	r := p.ChargeRadius

	tests := []struct {
		name string
		dx   float64
		want bool
	}{
		{"far apart", 3 * r, false},
		{"exactly touching", 2 * r, false},
		{"overlapping", 2*r - 1, true},
		{"coincident", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewCharge(0, Positive, r2.Vec{X: 100, Y: 100}, false, p)
			b := NewCharge(1, Positive, r2.Vec{X: 100 + tt.dx, Y: 100}, false, p)
			c, ok := Overlap(&a, &b)
			if ok != tt.want {
				t.Fatalf("Overlap = %v, want %v", ok, tt.want)
			}
			if ok && math.Abs(r2.Norm(c.Normal)-1) > 1e-12 {
				t.Errorf("normal %v is not unit length", c.Normal)
			}
		})
	}
}

func TestResolveFixedTakesNoCorrection(t *testing.T) {
	p := DefaultParams()
	a := NewCharge(0, Positive, r2.Vec{X: 100, Y: 100}, true, p)
	b := NewCharge(1, Positive, r2.Vec{X: 150, Y: 100}, false, p)

	c, ok := Overlap(&a, &b)
	if !ok {
		t.Fatal("expected overlap")
	}
	Resolve(&a, &b, c, p)

	if a.Pos != (r2.Vec{X: 100, Y: 100}) {
		t.Errorf("fixed charge moved to %v", a.Pos)
	}
	wantX := 150 + c.Depth*p.CorrectionStrength
	if math.Abs(b.Pos.X-wantX) > 1e-9 {
		t.Errorf("b.X = %v, want %v", b.Pos.X, wantX)
	}
}

func TestResolveSplitsCorrection(t *testing.T) {
	p := DefaultParams()
	a := NewCharge(0, Positive, r2.Vec{X: 100, Y: 100}, false, p)
	b := NewCharge(1, Positive, r2.Vec{X: 150, Y: 100}, false, p)

	c, _ := Overlap(&a, &b)
	Resolve(&a, &b, c, p)

	half := c.Depth * p.CorrectionStrength / 2
	if math.Abs(a.Pos.X-(100-half)) > 1e-9 || math.Abs(b.Pos.X-(150+half)) > 1e-9 {
		t.Errorf("positions = %v, %v", a.Pos, b.Pos)
	}
	if _, still := Overlap(&a, &b); still {
		t.Error("charges still overlap after correction")
	}
}

func TestResolveImpulse(t *testing.T) {
	p := DefaultParams()
	a := NewCharge(0, Positive, r2.Vec{X: 100, Y: 100}, false, p)
	b := NewCharge(1, Positive, r2.Vec{X: 150, Y: 100}, false, p)
	a.Vel = r2.Vec{X: 1}
	b.Vel = r2.Vec{X: -1}
	before := r2.Add(a.Momentum(), b.Momentum())

	c, _ := Overlap(&a, &b)
	j := Resolve(&a, &b, c, p)
	if j <= 0 {
		t.Fatalf("impulse = %v, want positive", j)
	}

	if math.Abs(a.Vel.X+0.5) > 1e-12 || math.Abs(b.Vel.X-0.5) > 1e-12 {
		t.Errorf("velocities = %v, %v, want -0.5 and 0.5", a.Vel, b.Vel)
	}
	after := r2.Add(a.Momentum(), b.Momentum())
	if r2.Norm(r2.Sub(after, before)) > 1e-12 {
		t.Errorf("momentum %v -> %v", before, after)
	}
}

func TestResolveSeparatingNoImpulse(t *testing.T) {
	p := DefaultParams()
	a := NewCharge(0, Positive, r2.Vec{X: 100, Y: 100}, false, p)
	b := NewCharge(1, Positive, r2.Vec{X: 150, Y: 100}, false, p)
	a.Vel = r2.Vec{X: -1}
	b.Vel = r2.Vec{X: 1}

	c, _ := Overlap(&a, &b)
	if j := Resolve(&a, &b, c, p); j != 0 {
		t.Errorf("impulse = %v, want 0", j)
	}
}

func TestMerge(t *testing.T) {
	p := DefaultParams()
	a := NewCharge(4, Positive, r2.Vec{X: 100, Y: 100}, false, p)
	b := NewCharge(9, Negative, r2.Vec{X: 140, Y: 120}, false, p)
	a.Vel = r2.Vec{X: 2, Y: 1}
	b.Vel = r2.Vec{X: -1, Y: 3}

	if !CanMerge(&a, &b) {
		t.Fatal("opposite charges should merge")
	}

	n := Merge(a, b, a.ID, p)
	if n.Sign != Neutral || n.Q != 0 {
		t.Errorf("product sign/q = %v/%v", n.Sign, n.Q)
	}
	if n.ID != 4 {
		t.Errorf("product ID = %d, want 4", n.ID)
	}
	if n.Pos != (r2.Vec{X: 120, Y: 110}) {
		t.Errorf("product at %v, want midpoint {120 110}", n.Pos)
	}
	if n.Fixed {
		t.Error("product of movable parents should be movable")
	}

	want := r2.Add(a.Momentum(), b.Momentum())
	if got := n.Momentum(); r2.Norm(r2.Sub(got, want)) > 1e-12 {
		t.Errorf("momentum = %v, want %v", got, want)
	}
}

func TestMergeMassPolicy(t *testing.T) {
	p := DefaultParams()
	p.MergedMassFactor = 0
	a := NewCharge(0, Positive, r2.Vec{}, false, p)
	b := NewCharge(1, Negative, r2.Vec{X: 10}, false, p)
	a.Mass, b.Mass = 1, 3
	a.Vel = r2.Vec{X: 4}

	n := Merge(a, b, 0, p)
	if n.Mass != 4 {
		t.Errorf("mass = %v, want 4", n.Mass)
	}
	if n.Vel != (r2.Vec{X: 1}) {
		t.Errorf("vel = %v, want {1 0}", n.Vel)
	}
}

func TestMergeFixedness(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		fa, fb, want bool
	}{
		{true, true, true},
		{true, false, false},
		{false, false, false},
	}
	for _, tt := range tests {
		a := NewCharge(0, Positive, r2.Vec{}, tt.fa, p)
		b := NewCharge(1, Negative, r2.Vec{X: 10}, tt.fb, p)
		if !tt.fb {
			b.Vel = r2.Vec{X: 3}
		}
		n := Merge(a, b, 0, p)
		if n.Fixed != tt.want {
			t.Errorf("fixed %v+%v = %v, want %v", tt.fa, tt.fb, n.Fixed, tt.want)
		}
		if n.Fixed && n.Vel != (r2.Vec{}) {
			t.Errorf("fixed product has velocity %v", n.Vel)
		}
	}
}

func TestMergeZeroMass(t *testing.T) {
	p := DefaultParams()
	p.MergedMassFactor = 0
	a := Charge{Sign: Positive, Vel: r2.Vec{X: 1}}
	b := Charge{Sign: Negative, Vel: r2.Vec{X: 1}}
	n := Merge(a, b, 0, p)
	if n.Vel != (r2.Vec{}) {
		t.Errorf("zero-mass product vel = %v, want zero", n.Vel)
	}
}

func TestProbeSample(t *testing.T) {
	p := DefaultParams()
	charges := []Charge{NewCharge(0, Positive, r2.Vec{X: 200, Y: 200}, false, p)}

	near := NewProbe(r2.Vec{X: 200 + p.ProbeClearance/2, Y: 200})
	if got := near.Sample(charges, p); got != 0 || !near.Hidden || near.Net != (r2.Vec{}) {
		t.Errorf("near probe = %+v (mag %v), want hidden with zero force", near, got)
	}

	far := NewProbe(r2.Vec{X: 400, Y: 200})
	mag := far.Sample(charges, p)
	if far.Hidden || mag <= 0 {
		t.Errorf("far probe hidden=%v mag=%v", far.Hidden, mag)
	}
	if far.Net.X <= 0 {
		t.Errorf("probe should be pushed away from positive charge, got %v", far.Net)
	}

	empty := NewProbe(r2.Vec{X: 1, Y: 1})
	if got := empty.Sample(nil, p); got != 0 || empty.Hidden {
		t.Errorf("empty sample = %v hidden=%v", got, empty.Hidden)
	}
}
