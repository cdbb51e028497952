package meshmath

import "errors"

var (
	// ErrShapeMismatch is returned when source and target lengths differ.
	ErrShapeMismatch = errors.New("source and target point counts differ")
	// ErrNotImplemented is returned for an unrecognised mode.
	ErrNotImplemented = errors.New("mode not implemented")
	// ErrMissingReport is returned when a mirror mode has no symmetry report.
	ErrMissingReport = errors.New("mirror mode requires a symmetry report")
)
