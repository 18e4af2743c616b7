package calib

import "errors"

var (
	// ErrNotConverged is returned when two consecutive frequency estimates
	// never agree within the tolerance before MaxRounds is exhausted.
	ErrNotConverged = errors.New("calib: frequency did not converge")

	// ErrCounterStalled is returned when the counter did not advance over a
	// full sampling window.
	ErrCounterStalled = errors.New("calib: counter did not advance")
)
