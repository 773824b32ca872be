package filter

import "errors"

// Sentinel kinds for filter outcomes.
var (
	// ErrNoMatches signals that every catalog record was eliminated by
	// the hard constraints. It is a distinguished outcome, not a system
	// failure; callers decide whether to relax constraints or report
	// zero results.
	ErrNoMatches = errors.New("no catalog records match the given constraints")
)
