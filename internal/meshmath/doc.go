// Package meshmath combines two equal-length position lists point by point.
//
// Combine is the pure core: add, subtract, blend and friends work on the
// raw lists, while flip, symPos and symNeg also need a symmetry.Report
// computed against the target. Apply wraps Combine for host meshes and
// writes the result back into the target, into a duplicate, or nowhere.
package meshmath
