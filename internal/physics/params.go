package physics

import "fmt"

// Params carries every tuned constant used by the kernel. Zero values are
// not meaningful; start from DefaultParams.
type Params struct {
	// CoulombK is the electrostatic constant.
	CoulombK float64 `yaml:"coulomb_k"`
	// ForceScale multiplies every pairwise force. The reference tuning
	// runs charges of 1e-7 on a pixel-sized plane, so the raw Coulomb
	// force is far too weak to move anything visibly without it.
	ForceScale float64 `yaml:"force_scale"`
	// MinDistance clamps separations in force and potential evaluation.
	MinDistance float64 `yaml:"min_distance"`
	// Friction is the per-tick speed retention factor in (0, 1].
	Friction float64 `yaml:"friction"`
	// RestSpeed is the speed below which a charge snaps to rest.
	RestSpeed float64 `yaml:"rest_speed"`
	// Restitution is the coefficient used for contact impulses.
	Restitution float64 `yaml:"restitution"`
	// CorrectionStrength scales positional de-overlap.
	CorrectionStrength float64 `yaml:"correction_strength"`

	ChargeRadius  float64 `yaml:"charge_radius"`
	NeutralRadius float64 `yaml:"neutral_radius"`
	DefaultCharge float64 `yaml:"default_charge"`
	DefaultMass   float64 `yaml:"default_mass"`

	// MergedMassFactor sets a merge product's mass as a multiple of
	// DefaultMass. Zero or negative means the product takes the sum of
	// its parents' masses.
	MergedMassFactor float64 `yaml:"merged_mass_factor"`

	ProbeCharge float64 `yaml:"probe_charge"`
	// ProbeClearance is the radius around a charge inside which probes
	// are hidden.
	ProbeClearance float64 `yaml:"probe_clearance"`
}

// DefaultParams returns the reference tuning.
func DefaultParams() Params {
	const radius = 48.0
	return Params{
		CoulombK:           8.99e10,
		ForceScale:         2e6,
		MinDistance:        1.0,
		Friction:           0.95,
		RestSpeed:          0.005,
		Restitution:        0.5,
		CorrectionStrength: 1.5,
		ChargeRadius:       radius,
		NeutralRadius:      radius,
		DefaultCharge:      1e-7,
		DefaultMass:        1.67e-2,
		MergedMassFactor:   2.0,
		ProbeCharge:        1.0,
		ProbeClearance:     1.5 * radius,
	}
}

// Validate checks every field for range and finiteness.
func (p Params) Validate() error {
	checks := []struct {
		name string
		v    float64
		ok   bool
	}{
		{"coulomb_k", p.CoulombK, p.CoulombK > 0},
		{"force_scale", p.ForceScale, p.ForceScale > 0},
		{"min_distance", p.MinDistance, p.MinDistance > 0},
		{"friction", p.Friction, p.Friction > 0 && p.Friction <= 1},
		{"rest_speed", p.RestSpeed, p.RestSpeed >= 0},
		{"restitution", p.Restitution, p.Restitution >= 0 && p.Restitution <= 1},
		{"correction_strength", p.CorrectionStrength, p.CorrectionStrength >= 0},
		{"charge_radius", p.ChargeRadius, p.ChargeRadius > 0},
		{"neutral_radius", p.NeutralRadius, p.NeutralRadius > 0},
		{"default_charge", p.DefaultCharge, p.DefaultCharge > 0},
		{"default_mass", p.DefaultMass, p.DefaultMass > 0},
		{"merged_mass_factor", p.MergedMassFactor, true},
		{"probe_charge", p.ProbeCharge, p.ProbeCharge > 0},
		{"probe_clearance", p.ProbeClearance, p.ProbeClearance >= 0},
	}
	for _, c := range checks {
		if !finite(c.v) {
			return fmt.Errorf("%w: %s is %v", ErrNonFinite, c.name, c.v)
		}
		if !c.ok {
			return fmt.Errorf("%w: %s = %v", ErrInvalidParams, c.name, c.v)
		}
	}
	return nil
}

// MergedMass returns the mass of the neutral formed from parents of mass
// ma and mb.
func (p Params) MergedMass(ma, mb float64) float64 {
	if p.MergedMassFactor <= 0 {
		return ma + mb
	}
	return p.MergedMassFactor * p.DefaultMass
}

// RadiusFor returns the collision radius used for a new charge of sign s.
func (p Params) RadiusFor(s Sign) float64 {
	if s == Neutral {
		return p.NeutralRadius
	}
	return p.ChargeRadius
}
