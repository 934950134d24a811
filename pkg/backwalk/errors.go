package backwalk

// DegenerateStepError reports a point whose x-coordinate coincides with the
// generator's, which makes the chord slope's modular inverse undefined. The
// error is scoped to the lane that hit it; other lanes are untouched.
type DegenerateStepError struct {
	// X is the offending x-coordinate in hex.
	X string
}

func (e *DegenerateStepError) Error() string {
	return "backwalk: degenerate step: x-coordinate " + e.X + " equals the generator x-coordinate"
}

// InconsistentStateError reports a lane operation on state that was never
// validly seeded (or was invalidated by an earlier degenerate step).
type InconsistentStateError struct {
	Reason string
}

func (e *InconsistentStateError) Error() string {
	return "backwalk: inconsistent lane state: " + e.Reason
}
