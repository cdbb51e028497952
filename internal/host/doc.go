// Package host defines the collaborator interfaces the mirror engine consumes.
//
// A host owns the scene: nodes, their attributes, keyed animation and
// vertex positions. The engine never holds node state of its own; it reads
// and writes through these interfaces with opaque Node handles.
//
// Implementations: memscene (in-memory, used by tests and demos) and
// scenedb (SQLite-backed scene catalogue).
package host
