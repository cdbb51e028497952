// Package symmetry finds bilateral symmetry in a flat list of 3D points.
//
// Responsibilities: mirror plane resolution (pivot, world or bounding-box
// center along an axis), the two-phase point classification, and the
// pairing pass that produces a Report with a bidirectional symmetry map.
// Key types: Point, Plane, Classification, Report.
//
// Pairing is first-match by default: for each positive-side point every
// negative-side candidate that passes the tolerance gates is recorded, in
// index order. MatchOptions{Strategy: Optimal} switches to a strict 1:1
// minimum-cost assignment instead.
//
// No host or scene code lives here beyond the GeometryProvider used to
// resolve a plane from a node.
package symmetry
