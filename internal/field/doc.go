// Package field samples the electrostatic field on fixed lattices.
//
// Two lattices are maintained: a coarse probe lattice ([Lattice]) whose
// points carry force vectors, and a dense potential grid ([Grid]) whose
// samples drive the heat map and equipotential contours. Sampling is
// split into disjoint chunks evaluated concurrently with errgroup; callers
// see a single blocking call that returns once every chunk is written.
package field
