// Package physics provides the electrostatics kernel for the charge sandbox.
//
// The package is a set of plain data types and pure functions; it owns no
// goroutines and keeps no global state. Every operation takes a [Params]
// value carrying the tuned constants so alternate tunings can be exercised
// side by side:
//
//   - [Charge]: a simulated point body with sign, mass and velocity
//   - [Probe]: a massless lattice point used only to sample the field
//   - [ForceBetween] / [Interact]: the Coulomb-style pairwise force law
//   - [Potential]: the scalar potential at a point
//   - [Overlap] / [Resolve]: contact detection and response
//   - [Merge]: annihilation of two opposite charges into a neutral body
//
// # Degenerate geometry
//
// Distances are clamped to [Params.MinDistance] before any division, so
// coincident centers produce finite (zero-direction) forces and finite
// potentials instead of NaN.
package physics
